package seed

import "errors"

var (
	// ErrUnknownDepartment はフィクスチャが存在しない部署名を参照した場合に返却されます。
	ErrUnknownDepartment = errors.New("seed: fixture references unknown department")
	// ErrUnknownRole はフィクスチャが存在しない役職名を参照した場合に返却されます。
	ErrUnknownRole = errors.New("seed: fixture references unknown role")
)
