package servicerules

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило услуги не найдено
	ErrRuleNotFound = errors.New("servicerules.repository: service rule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("servicerules.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("servicerules.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("servicerules.repository: failed to scan row")

	// ErrEncodeParams возвращается при ошибке кодирования параметров правила
	ErrEncodeParams = errors.New("servicerules.repository: failed to encode rule params")

	// ErrDecodeParams возвращается при ошибке декодирования параметров правила
	ErrDecodeParams = errors.New("servicerules.repository: failed to decode rule params")
)
