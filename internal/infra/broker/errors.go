package broker

import "errors"

var (
	// ErrConnect возвращается, если не удалось подключиться к RabbitMQ
	ErrConnect = errors.New("broker: failed to connect")

	// ErrPublish возвращается при ошибке публикации
	ErrPublish = errors.New("broker: failed to publish")

	// ErrNotConfirmed возвращается, когда брокер ответил nack на публикацию
	ErrNotConfirmed = errors.New("broker: publish not confirmed")
)
