package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/core/role"
	pgdb "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
)

// MembershipRepository は employee_departments / employee_roles を扱う実装です。
type MembershipRepository struct {
	pool pgdb.Queryer
}

// NewMembershipRepository は MembershipRepository を生成します。
func NewMembershipRepository(pool pgdb.Queryer) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

// AddDepartment は社員を部署に所属させます。
func (r *MembershipRepository) AddDepartment(ctx context.Context, employeeID, departmentID int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `INSERT INTO employee_departments (employee_id, department_id) VALUES ($1, $2)`, employeeID, departmentID)
	return translateMembershipPgError(err)
}

// AddRole は社員に役職を付与します。
func (r *MembershipRepository) AddRole(ctx context.Context, employeeID, roleID int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `INSERT INTO employee_roles (employee_id, role_id) VALUES ($1, $2)`, employeeID, roleID)
	return translateMembershipPgError(err)
}

// RemoveDepartments は社員の所属部署をすべて外します。
func (r *MembershipRepository) RemoveDepartments(ctx context.Context, employeeID int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `DELETE FROM employee_departments WHERE employee_id = $1`, employeeID)
	return err
}

// RemoveRoles は社員の役職をすべて外します。
func (r *MembershipRepository) RemoveRoles(ctx context.Context, employeeID int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `DELETE FROM employee_roles WHERE employee_id = $1`, employeeID)
	return err
}

// DepartmentsFor は複数社員の所属部署を 1 クエリで取得します。
func (r *MembershipRepository) DepartmentsFor(ctx context.Context, employeeIDs []int64) (map[int64][]department.Department, error) {
	result := make(map[int64][]department.Department, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return result, nil
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT DISTINCT ed.employee_id, d.id, d.name, d.created_at, d.updated_at
          FROM employee_departments ed
          JOIN departments d ON d.id = ed.department_id
         WHERE ed.employee_id = ANY($1)
         ORDER BY ed.employee_id, d.id
    `, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			employeeID int64
			d          department.Department
		)
		if err := rows.Scan(&employeeID, &d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result[employeeID] = append(result[employeeID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// RolesFor は複数社員の役職を 1 クエリで取得します。
func (r *MembershipRepository) RolesFor(ctx context.Context, employeeIDs []int64) (map[int64][]role.Role, error) {
	result := make(map[int64][]role.Role, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return result, nil
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT DISTINCT er.employee_id, ro.id, ro.title, ro.created_at, ro.updated_at
          FROM employee_roles er
          JOIN roles ro ON ro.id = er.role_id
         WHERE er.employee_id = ANY($1)
         ORDER BY er.employee_id, ro.id
    `, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			employeeID int64
			id         int64
			title      string
			createdAt  time.Time
			updatedAt  time.Time
		)
		if err := rows.Scan(&employeeID, &id, &title, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		result[employeeID] = append(result[employeeID], role.Role{ID: id, Title: title, CreatedAt: createdAt, UpdatedAt: updatedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func translateMembershipPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		switch pgErr.ConstraintName {
		case "employee_departments_department_id_fkey":
			return department.ErrDepartmentNotFound
		case "employee_roles_role_id_fkey":
			return role.ErrRoleNotFound
		case "employee_departments_employee_id_fkey", "employee_roles_employee_id_fkey":
			return employee.ErrEmployeeNotFound
		}
	}

	return err
}
