package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidInput базовая ошибка, к которой приводится любая InputError через errors.Is
var ErrInvalidInput = errors.New("invalid input data")

// InputError собирает все ошибки валидации запроса по полям
type InputError struct {
	fields map[string][]string
}

func NewInputError() *InputError {
	return &InputError{fields: make(map[string][]string)}
}

// Add добавляет сообщение для поля
func (e *InputError) Add(field, msg string) {
	e.fields[field] = append(e.fields[field], msg)
}

// Count количество полей с ошибками
func (e *InputError) Count() int {
	return len(e.fields)
}

// Fields возвращает ошибки по полям
func (e *InputError) Fields() map[string][]string {
	return e.fields
}

// OrNil возвращает nil, если ошибок не набралось
func (e *InputError) OrNil() error {
	if e.Count() == 0 {
		return nil
	}
	return e
}

func (e *InputError) Error() string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.fields[name], "; ")))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), strings.Join(parts, ", "))
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// AsInputError достаёт InputError из цепочки ошибок
func AsInputError(err error) (*InputError, bool) {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr, true
	}
	return nil, false
}
