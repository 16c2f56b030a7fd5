package leave

import (
	"errors"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError keeps AppErrors from the ledger intact and turns
// storage failures into a retriable StorageError.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return leaveerrors.ErrConcurrentModification
		case "23514", "22P02":
			return apperror.Wrap(err, apperror.CodeInvalidInput, "invalid leave request data", apperror.ErrInvalidInput.HTTPStatus)
		}
	}

	return apperror.Storage(err)
}
