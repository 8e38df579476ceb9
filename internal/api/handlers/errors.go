package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

const (
	msgInvalidWindow       = "некорректное временное окно"
	msgInvalidInput        = "некорректные данные запроса"
	msgNonPositive         = "длительность должна быть положительной"
	msgUnknownRateTier     = "неизвестный тариф"
	msgUnknownResourceType = "неизвестный тип ресурса"
	msgNotFound            = "не найдено"
	msgConflict            = "окно пересекается с существующими занятостями"
	msgAlreadyHeld         = "ресурс уже удерживается другим заказом"
	msgResourceInactive    = "ресурс выведен из каталога"
	msgHoldExpired         = "время удержания истекло"
	msgUnavailable         = "хранилище временно недоступно, повторите запрос"
	msgInternal            = "внутренняя ошибка сервера"
)

// RespondDomainError переводит ошибку движка в HTTP ответ и возвращает отправленный статус.
// Текст ошибки движка передаётся клиенту для 4xx, для 5xx отдается общее сообщение.
func RespondDomainError(w http.ResponseWriter, err error) int {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		RespondConflict(w, msgConflict, FromConflictReports(conflictErr.Reports))
		return http.StatusConflict
	}

	var heldErr *domain.AlreadyHeldError
	if errors.As(err, &heldErr) {
		RespondError(w, http.StatusConflict, msgAlreadyHeld+": "+err.Error())
		return http.StatusConflict
	}

	status, message := classify(err)
	if status < http.StatusInternalServerError {
		message = message + ": " + err.Error()
	}
	RespondError(w, status, message)
	return status
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidWindow):
		return http.StatusBadRequest, msgInvalidWindow
	case errors.Is(err, domain.ErrNonPositiveDuration):
		return http.StatusBadRequest, msgNonPositive
	case errors.Is(err, domain.ErrUnknownRateTier):
		return http.StatusBadRequest, msgUnknownRateTier
	case errors.Is(err, domain.ErrUnknownResourceType):
		return http.StatusBadRequest, msgUnknownResourceType
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidInput
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, msgConflict
	case errors.Is(err, domain.ErrAlreadyHeld):
		return http.StatusConflict, msgAlreadyHeld
	case errors.Is(err, domain.ErrResourceInactive):
		return http.StatusConflict, msgResourceInactive
	case errors.Is(err, domain.ErrHoldExpired):
		return http.StatusConflict, msgHoldExpired
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, msgUnavailable
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
