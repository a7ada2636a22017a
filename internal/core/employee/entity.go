package employee

import (
	"time"

	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/role"
)

// Employee は社員エンティティです。Email は未設定の場合 nil です。
type Employee struct {
	ID        int64
	Name      string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Details は社員の基本情報に所属部署と役職を合成したビューです。
type Details struct {
	Employee
	Departments []department.Department
	Roles       []role.Role
}
