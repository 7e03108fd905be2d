package validate_booking

import (
	"errors"
	"net/http"

	"github.com/sharpcut/SharpCut-RulesService/internal/api/handlers"
	validateBookingUC "github.com/sharpcut/SharpCut-RulesService/internal/usecase/validate_booking"
	"github.com/sharpcut/SharpCut-RulesService/pkg/metrics"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные бронирования"

	outcomeValid   = "valid"
	outcomeInvalid = "invalid"
)

type Handler struct {
	useCase BookingValidator
	metrics *metrics.Metrics // может быть nil, если метрики выключены
	logger  Logger
}

func NewHandler(useCase BookingValidator, m *metrics.Metrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: m,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Декодируем body
	var req ValidateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid booking date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Выполняем валидацию кандидата
	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		if errors.Is(err, validateBookingUC.ErrInvalidInput) {
			h.logger.Warn("POST /bookings/validate - Invalid data: user_id=%d, error=%v", req.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}

		h.logger.Error("POST /bookings/validate - Validation failed: user_id=%d, error=%v", req.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.observeOutcome(result.IsValid)

	h.logger.Info("POST /bookings/validate - Validation completed: user_id=%d, valid=%t, violations=%d",
		req.UserID, result.IsValid, len(result.Violations))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) observeOutcome(isValid bool) {
	if h.metrics == nil {
		return
	}

	outcome := outcomeInvalid
	if isValid {
		outcome = outcomeValid
	}
	h.metrics.ValidationsTotal.WithLabelValues(outcome).Inc()
}
