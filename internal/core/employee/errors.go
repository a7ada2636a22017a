package employee

import "errors"

var (
	ErrInvalidID          = errors.New("invalid employee id")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidSortOrder   = errors.New("invalid sort order: expected asc or desc")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrValueTooLong       = errors.New("value too long")
)
