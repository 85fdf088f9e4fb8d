package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrInvalidData  = errors.New("invalid data")
	ErrNotFound     = errors.New("record not found")
	ErrSaveFailed   = errors.New("save failed")
	ErrFetchFailed  = errors.New("fetch failed")
	ErrDeleteFailed = errors.New("delete failed")
)

// UserMessage is the text shown to a user for err. Storage details stay in
// the logs.
func UserMessage(err error) string {
	var verr interface{ UserMessage() string }
	switch {
	case errors.As(err, &verr):
		return verr.UserMessage()
	case errors.Is(err, ErrNotFound):
		return "Record not found"
	case errors.Is(err, ErrSaveFailed):
		return "Failed to save data"
	case errors.Is(err, ErrDeleteFailed):
		return "Failed to delete data"
	case errors.Is(err, ErrFetchFailed):
		return "Failed to fetch data"
	case errors.Is(err, ErrInvalidData):
		return "Invalid data"
	default:
		return "Something went wrong"
	}
}

// StorageError classifies err returned from a storage call: a missing record
// becomes ErrNotFound, errors already carrying ErrInvalidData or ErrNotFound
// pass through, anything else is wrapped in kind.
func StorageError(kind, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, ErrInvalidData), errors.Is(err, ErrNotFound):
		return err
	default:
		return fmt.Errorf("%w: %v", kind, err)
	}
}
