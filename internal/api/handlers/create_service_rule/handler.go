package create_service_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sharpcut/SharpCut-RulesService/internal/api/handlers"
	"github.com/sharpcut/SharpCut-RulesService/internal/api/middleware"
	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные правила"
	msgMissingUserID      = "отсутствует идентификатор пользователя"
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

// Handle POST /api/v1/services/{serviceId}/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем serviceId из URL
	vars := mux.Vars(r)
	serviceIDStr := vars["serviceId"]

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /services/{id}/rules - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /services/{id}/rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req CreateServiceRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services/{id}/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Создаем правило услуги
	result, err := h.service.CreateServiceRule(r.Context(), req.ToServiceRequest(userID, serviceID))
	if err != nil {
		if errors.Is(err, rules.ErrInvalidInput) {
			h.logger.Warn("POST /services/{id}/rules - Invalid data: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}

		h.logger.Error("POST /services/{id}/rules - Failed to create rule: service_id=%d, error=%v", serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /services/{id}/rules - Rule created successfully: rule_id=%d, service_id=%d, user_id=%d",
		result.ID, serviceID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
