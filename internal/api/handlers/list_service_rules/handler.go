package list_service_rules

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sharpcut/SharpCut-RulesService/internal/api/handlers"
	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules"
	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidQuery     = "некорректные параметры запроса"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/rules?type=&isActive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем serviceId из URL
	vars := mux.Vars(r)
	serviceIDStr := vars["serviceId"]

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/rules - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	req := &models.ListServiceRulesRequest{ServiceID: &serviceID}

	// Разбираем query параметры
	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		req.Type = &typeStr
	}
	if activeStr := r.URL.Query().Get("isActive"); activeStr != "" {
		isActive, err := strconv.ParseBool(activeStr)
		if err != nil {
			h.logger.Warn("GET /services/{id}/rules - Invalid isActive value: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		req.IsActive = &isActive
	}

	// Получаем список правил услуги
	result, err := h.service.ListServiceRules(r.Context(), req)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidInput) {
			h.logger.Warn("GET /services/{id}/rules - Invalid query: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}

		h.logger.Error("GET /services/{id}/rules - Failed to list rules: service_id=%d, error=%v", serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /services/{id}/rules - Listed %d rules for service_id=%d", len(result.Rules), serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
