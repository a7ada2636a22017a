package employee

import (
	"context"

	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/role"
)

// Repository は employees テーブルの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	CreateMany(ctx context.Context, employees []*Employee) ([]*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	// Delete は削除した行数を返します。存在しない ID はエラーになりません。
	Delete(ctx context.Context, id int64) (int64, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context, filter ListEmployeesFilter) ([]*Employee, error)
}

// MembershipRepository は社員と部署・役職を結ぶ中間テーブルを扱います。
type MembershipRepository interface {
	AddDepartment(ctx context.Context, employeeID, departmentID int64) error
	AddRole(ctx context.Context, employeeID, roleID int64) error
	RemoveDepartments(ctx context.Context, employeeID int64) error
	RemoveRoles(ctx context.Context, employeeID int64) error
	// DepartmentsFor は社員 ID ごとの所属部署 (重複なし、ID 順) を返します。
	DepartmentsFor(ctx context.Context, employeeIDs []int64) (map[int64][]department.Department, error)
	// RolesFor は社員 ID ごとの役職 (重複なし、ID 順) を返します。
	RolesFor(ctx context.Context, employeeIDs []int64) (map[int64][]role.Role, error)
}

// ListEmployeesFilter は一覧取得用フィルタです。DepartmentID と RoleID は同時に指定できます。
type ListEmployeesFilter struct {
	DepartmentID *int64
	RoleID       *int64
	// OrderByName が空の場合は ID 昇順です。
	OrderByName SortOrder
}
