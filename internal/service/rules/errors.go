package rules

import "errors"

var (
	// ErrRuleNotFound возвращается, когда глобальное правило не найдено
	ErrRuleNotFound = errors.New("rule not found")

	// ErrServiceRuleNotFound возвращается, когда правило услуги не найдено
	ErrServiceRuleNotFound = errors.New("service rule not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
