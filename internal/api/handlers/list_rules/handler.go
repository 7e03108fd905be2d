package list_rules

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sharpcut/SharpCut-RulesService/internal/api/handlers"
	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules"
	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

const (
	msgInvalidQuery = "некорректные параметры запроса"
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

// Handle GET /api/v1/rules?type=&isActive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListRulesRequest{}

	// Разбираем query параметры
	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		req.Type = &typeStr
	}
	if activeStr := r.URL.Query().Get("isActive"); activeStr != "" {
		isActive, err := strconv.ParseBool(activeStr)
		if err != nil {
			h.logger.Warn("GET /rules - Invalid isActive value: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		req.IsActive = &isActive
	}

	// Получаем список правил
	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidInput) {
			h.logger.Warn("GET /rules - Invalid query: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}

		h.logger.Error("GET /rules - Failed to list rules: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /rules - Listed %d rules", len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
