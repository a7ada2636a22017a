package department

import "errors"

var (
	// ErrDepartmentNotFound は部署が存在しない場合に返却されます。
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrInvalidName は部署名が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid department name")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid department id")
)
