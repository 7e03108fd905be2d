package domain

import (
	"time"

	"github.com/sharpcut/SharpCut-RulesService/pkg/types"
)

// BookingSettings настройки бронирования бизнеса
// Единственная запись на бизнес: создается при онбординге, изменяется админкой, не удаляется
type BookingSettings struct {
	ID                  int64
	BusinessStartTime   types.TimeString
	BusinessEndTime     types.TimeString
	AllowSameDayBooking bool
	SameDayCutoffTime   types.TimeString
	BufferTimeMinutes   int
	MaxAdvanceDays      int
	MinAdvanceHours     int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
