package delete_rule

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
	msgInvalidRuleID = "некорректный ID правила"
	msgNotFound      = "правило не найдено"
	msgMissingUserID = "отсутствует идентификатор пользователя"
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

// Handle DELETE /api/v1/rules/{ruleId}
// Правило деактивируется, а не удаляется: история изменений сохраняется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем ruleId из URL
	vars := mux.Vars(r)
	ruleIDStr := vars["ruleId"]

	ruleID, err := strconv.ParseInt(ruleIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /rules/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /rules/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Деактивируем правило
	if err := h.service.Deactivate(r.Context(), ruleID, userID); err != nil {
		if errors.Is(err, rules.ErrRuleNotFound) {
			h.logger.Warn("DELETE /rules/{id} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("DELETE /rules/{id} - Failed to deactivate rule: rule_id=%d, error=%v", ruleID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /rules/{id} - Rule deactivated successfully: rule_id=%d, user_id=%d", ruleID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
