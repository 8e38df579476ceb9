package ratecard

import "errors"

var (
	// ErrRateCardNotFound возвращается, когда тарифная карта не найдена
	ErrRateCardNotFound = errors.New("ratecard.repository: rate card not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("ratecard.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("ratecard.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("ratecard.repository: failed to scan row")
)
