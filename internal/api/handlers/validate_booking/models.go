package validate_booking

import (
	"fmt"
	"time"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	validateBookingUC "github.com/sharpcut/SharpCut-RulesService/internal/usecase/validate_booking"
	"github.com/sharpcut/SharpCut-RulesService/pkg/types"
)

// ValidateBookingRequest HTTP request model
type ValidateBookingRequest struct {
	UserID          int64  `json:"userId" validate:"required,gt=0"`
	ServiceID       *int64 `json:"serviceId,omitempty" validate:"omitempty,gt=0"`
	BarberID        *int64 `json:"barberId,omitempty" validate:"omitempty,gt=0"`
	ClientID        *int64 `json:"clientId,omitempty" validate:"omitempty,gt=0"`
	BookingDate     string `json:"bookingDate" validate:"required,datetime=2006-01-02"`
	BookingTime     string `json:"bookingTime" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,gt=0"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *ValidateBookingRequest) ToUseCaseRequest() (*validateBookingUC.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("parse bookingDate: %w", err)
	}

	return &validateBookingUC.Request{
		UserID:          r.UserID,
		ServiceID:       r.ServiceID,
		BarberID:        r.BarberID,
		ClientID:        r.ClientID,
		BookingDate:     bookingDate,
		BookingTime:     types.TimeString(r.BookingTime),
		DurationMinutes: r.DurationMinutes,
	}, nil
}

// ValidateBookingResponse HTTP response model
type ValidateBookingResponse struct {
	IsValid    bool     `json:"isValid"`
	Violations []string `json:"violations"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *validateBookingUC.Response) *ValidateBookingResponse {
	violations := resp.Violations
	if violations == nil {
		violations = []string{}
	}

	return &ValidateBookingResponse{
		IsValid:    resp.IsValid,
		Violations: violations,
	}
}
