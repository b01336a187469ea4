package auth

import (
	"errors"
	"strings"

	autherrors "crewtrack/internal/auth/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return autherrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_users_email":
			return autherrors.ErrEmailAlreadyRegistered
		case "uq_users_employee":
			return autherrors.ErrEmployeeAlreadyHasAccount
		}
		if strings.Contains(pgErr.ConstraintName, "email") {
			return autherrors.ErrEmailAlreadyRegistered
		}
		return autherrors.ErrEmployeeAlreadyHasAccount
	}

	msg := err.Error()
	if strings.Contains(msg, "uq_users_email") {
		return autherrors.ErrEmailAlreadyRegistered
	}
	if strings.Contains(msg, "uq_users_employee") {
		return autherrors.ErrEmployeeAlreadyHasAccount
	}

	return err
}
