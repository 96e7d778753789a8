package repository

import (
	"airwaves/messaging-service/internal/apperrors"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

// classify maps the postgres errors a caller can cause to application errors
// and wraps everything else with op.
func classify(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case invalidTextRepresentation:
			return apperrors.Wrap(apperrors.CodeInvalidArgument, "malformed identifier", err)
		case foreignKeyViolation:
			return ErrUserNotFound
		}
	}
	return errors.Wrap(err, op)
}
