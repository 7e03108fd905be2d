package domain

import (
	"time"

	"github.com/sharpcut/SharpCut-RulesService/pkg/types"
)

// CandidateBooking кандидат на бронирование - параметры заявки до сохранения
// Движок валидации не сохраняет кандидата, только проверяет его на соответствие правилам
type CandidateBooking struct {
	UserID          int64
	ServiceID       *int64 // nil = правила услуг не применяются
	BarberID        *int64
	ClientID        *int64 // nil = ограничения клиента не применяются
	BookingDate     time.Time
	BookingTime     types.TimeString
	DurationMinutes int
}

// ValidationResult результат валидации кандидата
// Инвариант: IsValid == (len(Violations) == 0)
type ValidationResult struct {
	IsValid    bool
	Violations []string
}

// NewValidationResult создает результат из списка нарушений
func NewValidationResult(violations []string) *ValidationResult {
	return &ValidationResult{
		IsValid:    len(violations) == 0,
		Violations: violations,
	}
}
