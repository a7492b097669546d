package confirm_payment

import "errors"

var (
	// ErrUnknownProvider возвращается для webhook неизвестного провайдера
	ErrUnknownProvider = errors.New("confirm_payment: unknown payment provider")

	// ErrInvalidSignature возвращается, когда подпись webhook не сошлась
	ErrInvalidSignature = errors.New("confirm_payment: invalid webhook signature")

	// ErrInvalidPayload возвращается, когда тело webhook не удалось разобрать
	ErrInvalidPayload = errors.New("confirm_payment: invalid webhook payload")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
