package validate_booking

import (
	"context"

	validateBookingUC "github.com/sharpcut/SharpCut-RulesService/internal/usecase/validate_booking"
)

type BookingValidator interface {
	Execute(ctx context.Context, req *validateBookingUC.Request) (*validateBookingUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
