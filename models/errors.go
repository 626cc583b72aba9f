package models

import "fmt"

// Типизированные ошибки движка. Любая операция либо выполняется целиком,
// либо завершается одной из них без частичных изменений.

// ValidationError — некорректный ввод: неположительная сумма, недопустимый
// класс счета для роли в проводке и т.п. Возвращается до любой записи.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// NotFoundError — сущность не существует или принадлежит другому пользователю.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

func NewNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError — операция неприменима к текущему состоянию сущности:
// выполнение неактивного правила, повторное закрытие цели, чужая версия выгрузки.
type InvalidStateError struct {
	msg string
}

func (e *InvalidStateError) Error() string { return e.msg }

func NewInvalidState(format string, args ...any) *InvalidStateError {
	return &InvalidStateError{msg: fmt.Sprintf(format, args...)}
}

// StorageError — сбой хранилища; атомарная единица откатана, операцию можно
// повторить целиком.
type StorageError struct {
	msg string
	err error
}

func (e *StorageError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *StorageError) Unwrap() error { return e.err }

func NewStorage(err error, format string, args ...any) *StorageError {
	return &StorageError{msg: fmt.Sprintf(format, args...), err: err}
}
