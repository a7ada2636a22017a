package role

import "errors"

var (
	// ErrRoleNotFound は役職が存在しない場合に返却されます。
	ErrRoleNotFound = errors.New("role not found")
	// ErrInvalidTitle は役職名が不正な場合に返却されます。
	ErrInvalidTitle = errors.New("invalid role title")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid role id")
)
