package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrNoEncontrado = errors.New("no encontrado")
	ErrConflicto    = errors.New("conflicto")
	ErrProhibido    = errors.New("prohibido")
	ErrNoAutorizado = errors.New("no autorizado")
	ErrDatoInvalido = errors.New("dato invalido")
)

// Error carries a user-facing message next to its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func noEncontrado(msg string) error { return &Error{Kind: ErrNoEncontrado, Msg: msg} }
func conflicto(msg string) error    { return &Error{Kind: ErrConflicto, Msg: msg} }
func prohibido(msg string) error    { return &Error{Kind: ErrProhibido, Msg: msg} }
func noAutorizado(msg string) error { return &Error{Kind: ErrNoAutorizado, Msg: msg} }
func invalido(msg string) error     { return &Error{Kind: ErrDatoInvalido, Msg: msg} }

// notFoundAs replaces gorm.ErrRecordNotFound with a named 404.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return noEncontrado(msg)
	}
	return err
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
