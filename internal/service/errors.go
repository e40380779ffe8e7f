package service

import (
	"errors"
	"fmt"

	"pago-gateway/pkg/apperror"
)

// storeError classifies a repository failure as transient. Errors that are
// already classified pass through untouched.
func storeError(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.ErrStoreUnavailable(fmt.Errorf("%s: %w", op, err))
}
