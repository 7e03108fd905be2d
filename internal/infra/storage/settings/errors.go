package settings

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда настройки бизнеса ещё не созданы
	ErrSettingsNotFound = errors.New("settings.repository: booking settings not found")

	// ErrSettingsExist возвращается при попытке создать вторую запись настроек
	ErrSettingsExist = errors.New("settings.repository: booking settings already exist")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("settings.repository: failed to scan row")
)
