package rules

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило не найдено
	ErrRuleNotFound = errors.New("rules.repository: rule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rules.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rules.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rules.repository: failed to scan row")

	// ErrEncodeParams возвращается при ошибке кодирования параметров правила
	ErrEncodeParams = errors.New("rules.repository: failed to encode rule params")

	// ErrDecodeParams возвращается при ошибке декодирования параметров правила
	ErrDecodeParams = errors.New("rules.repository: failed to decode rule params")
)
