package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Postgres constraint names services care about.
const (
	ConstraintAsistenciaAbierta = "uq_asistencias_abierta"
	ConstraintCodigoQRActivo    = "uq_codigos_qr_activo"
)

var (
	// ErrDuplicado wraps unique violations (SQLSTATE 23505).
	ErrDuplicado = errors.New("registro duplicado")
	// ErrReferenciaInvalida wraps foreign-key violations (SQLSTATE 23503).
	ErrReferenciaInvalida = errors.New("referencia inexistente")
)

// ConstraintError keeps the violated constraint name next to the sentinel.
type ConstraintError struct {
	Constraint string
	kind       error
	cause      error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.kind, e.Constraint, e.cause)
}

func (e *ConstraintError) Unwrap() []error { return []error{e.kind, e.cause} }

// translate maps driver errors onto the package sentinels. Everything else is
// returned untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	code, constraint, ok := pgCode(err)
	if !ok {
		return err
	}
	switch code {
	case "23505":
		return &ConstraintError{Constraint: constraint, kind: ErrDuplicado, cause: err}
	case "23503":
		return &ConstraintError{Constraint: constraint, kind: ErrReferenciaInvalida, cause: err}
	}
	return err
}

func pgCode(err error) (code, constraint string, ok bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, true
	}
	// lib/pq surfaces from the migration driver's connection
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}

// ViolatesConstraint reports whether err is a unique/FK violation of name.
func ViolatesConstraint(err error, name string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Constraint == name
}
