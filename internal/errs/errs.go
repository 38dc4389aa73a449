package errs

import (
	"errors"
	"fmt"
)

// Kind clasifica un error de cara al caller. El handler HTTP mapea cada
// Kind a un status code; los services solo razonan en estos términos.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindUpstream
)

// Error es un error etiquetado: kind + code estable para la API + mensaje.
type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por kind + code, así errors.Is matchea contra los errores
// centinela de los services aunque la instancia venga envuelta.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func NotFound(code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Msg: msg}
}

func Conflict(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Msg: msg}
}

func Validation(code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Msg: msg}
}

func Upstream(code, msg string) *Error {
	return &Error{Kind: KindUpstream, Code: code, Msg: msg}
}

// Internal envuelve un fallo de store u otro error no clasificado.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal", Msg: "internal error", Err: err}
}

// KindOf devuelve el kind de un error; todo lo no etiquetado es interno.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf devuelve el code estable para la respuesta de la API.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}
