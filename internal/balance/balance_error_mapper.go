package balance

import (
	"errors"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError turns a repository failure into a client error where one
// applies. Everything else is an opaque, retriable storage error.
func mapRepositoryError(err error, notFound *apperror.AppError) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return balanceerrors.ErrBalanceConflict
	}

	return apperror.Storage(err)
}
