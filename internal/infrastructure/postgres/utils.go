package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Manufactura-api/internal/domain"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return sqlState(err) == codeUniqueViolation
}

// isConflict errores de concurrencia que abortan la tx: serialización, deadlock o lock no disponible.
func isConflict(err error) bool {
	switch sqlState(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}

// mapTxError traduce conflictos de concurrencia a domain.ErrConflict conservando el error original.
func mapTxError(err error) error {
	if err == nil || !isConflict(err) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}
