package apperr

import (
	"errors"
	"fmt"
)

// Kind — класс ошибки для маппинга в HTTP-статус. Классификация делается
// на границе домена; хендлеры наружу отдают только статус и message.
type Kind int

const (
	KindValidation Kind = iota // плохой/отсутствующий ввод
	KindConflict               // дубликат, повторный punch-in и т.п.
	KindNotFound               // нет записи/преподавателя
	KindStorage                // БД недоступна или запись не удалась
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is позволяет сравнивать через errors.Is с сентинелами ниже.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

func Validation(format string, a ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, a...)}
}

func Conflict(format string, a ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, a...)}
}

func NotFound(format string, a ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, a...)}
}

func Storage(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Msg: msg, Err: err}
}

// Сентинелы для errors.Is: сравнение только по Kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrStorage    = &Error{Kind: KindStorage}
)

// KindOf — класс err, если это наша ошибка; иначе KindStorage
// (всё неизвестное наружу считаем инфраструктурным).
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindStorage
}
