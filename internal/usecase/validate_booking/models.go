package validate_booking

import (
	"time"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/internal/integrations/clientservice"
	"github.com/sharpcut/SharpCut-RulesService/pkg/types"
)

// Request модель запроса на валидацию кандидата бронирования
type Request struct {
	UserID          int64            // ID пользователя платформы
	ServiceID       *int64           // ID услуги (опционально)
	BarberID        *int64           // ID барбера (опционально)
	ClientID        *int64           // ID клиента в CRM (опционально)
	BookingDate     time.Time        // Дата бронирования (без времени)
	BookingTime     types.TimeString // Время начала (например, "10:00")
	DurationMinutes int              // Длительность в минутах
}

// ToCandidate конвертирует запрос в доменный объект кандидата
func (r *Request) ToCandidate() *domain.CandidateBooking {
	return &domain.CandidateBooking{
		UserID:          r.UserID,
		ServiceID:       r.ServiceID,
		BarberID:        r.BarberID,
		ClientID:        r.ClientID,
		BookingDate:     r.BookingDate,
		BookingTime:     r.BookingTime,
		DurationMinutes: r.DurationMinutes,
	}
}

// Response модель результата валидации
// Инвариант: IsValid == (len(Violations) == 0)
type Response struct {
	IsValid    bool
	Violations []string
}

// validationData данные, загруженные для одного вызова валидации
// Загружаются однократно внутри read-only транзакции
type validationData struct {
	client       *clientservice.Client
	history      []*clientservice.Appointment
	serviceRules []*domain.ServiceBookingRule
	globalRules  []*domain.BookingRule
	settings     *domain.BookingSettings
}
