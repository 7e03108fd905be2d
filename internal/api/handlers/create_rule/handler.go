package create_rule

import (
	"errors"
	"net/http"

	"github.com/sharpcut/SharpCut-RulesService/internal/api/handlers"
	"github.com/sharpcut/SharpCut-RulesService/internal/api/middleware"
	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules"
)

const (
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

// Handle POST /api/v1/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Создаем правило
	result, err := h.service.Create(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		if errors.Is(err, rules.ErrInvalidInput) {
			h.logger.Warn("POST /rules - Invalid data: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}

		h.logger.Error("POST /rules - Failed to create rule: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /rules - Rule created successfully: rule_id=%d, user_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
