package validate_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("validate_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("validate_booking: internal error")
)

// msgValidationUnavailable единственное нарушение при сбое загрузки данных правил
// Движок fail-closed: если данные правил прочитать не удалось, бронирование
// не признается валидным
const msgValidationUnavailable = "Unable to validate booking, please try again later"
