package repository

import (
	"errors"
	"fmt"

	"github.com/Avatara12345/Chat-Application/pkg/errorx"

	"gorm.io/gorm"
)

// wrapDBError maps gorm errors to business-coded errors: record not
// found becomes CodeNotFound, everything else CodeDBError.
func wrapDBError(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

func wrapDBErrorf(err error, format string, args ...any) error {
	return wrapDBError(err, fmt.Sprintf(format, args...))
}
