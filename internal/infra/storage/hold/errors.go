package hold

import "errors"

var (
	// ErrHoldNotFound возвращается, когда удержание не найдено
	ErrHoldNotFound = errors.New("hold.repository: hold not found")

	// ErrDuplicateHold возвращается при нарушении уникальности удержания на экземпляре
	ErrDuplicateHold = errors.New("hold.repository: resource instance already has a hold")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("hold.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("hold.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("hold.repository: failed to scan row")
)
