package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
)

const employeeEmailUniqueConstraint = "employees_email_key"

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (name, email, created_at, updated_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, name, email, created_at, updated_at
    `, e.Name, nullableString(e.Email), e.CreatedAt, e.UpdatedAt)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// CreateMany は社員を 1 文でまとめて作成し、入力と同じ順序で返します。
func (r *EmployeeRepository) CreateMany(ctx context.Context, employees []*employee.Employee) ([]*employee.Employee, error) {
	if len(employees) == 0 {
		return []*employee.Employee{}, nil
	}

	args := make([]any, 0, len(employees)*4)
	for _, e := range employees {
		args = append(args, e.Name, nullableString(e.Email), e.CreatedAt, e.UpdatedAt)
	}

	query := `INSERT INTO employees (name, email, created_at, updated_at) VALUES ` +
		valuesPlaceholders(len(employees), 4) +
		` RETURNING id, name, email, created_at, updated_at`

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	created := make([]*employee.Employee, 0, len(employees))
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		created = append(created, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	sort.Slice(created, func(i, j int) bool { return created[i].ID < created[j].ID })
	return created, nil
}

// Update は社員の名前・メールアドレス・更新日時を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET name = $1,
               email = $2,
               updated_at = $3
         WHERE id = $4
        RETURNING id, name, email, created_at, updated_at
    `, e.Name, nullableString(e.Email), e.UpdatedAt, e.ID)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除し、削除件数を返します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return 0, translateEmployeePgError(err)
	}
	return tag.RowsAffected(), nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, email, created_at, updated_at
          FROM employees
         WHERE id = $1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は社員の一覧を取得します。部署・役職の条件は重複なしで評価されます。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, error) {
	args := make([]any, 0, 2)
	conditions := make([]string, 0, 2)

	if filter.DepartmentID != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "e.id IN (SELECT employee_id FROM employee_departments WHERE department_id = "+placeholder+")")
		args = append(args, *filter.DepartmentID)
	}

	if filter.RoleID != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "e.id IN (SELECT employee_id FROM employee_roles WHERE role_id = "+placeholder+")")
		args = append(args, *filter.RoleID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := " ORDER BY e.id ASC"
	if filter.OrderByName != "" {
		dir := filter.OrderByName.SQL()
		orderClause = " ORDER BY e.name " + dir + ", e.id " + dir
	}

	query := `SELECT e.id, e.name, e.email, e.created_at, e.updated_at FROM employees e` + whereClause + orderClause

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id        int64
		name      string
		email     sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &name, &email, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	var emailPtr *string
	if email.Valid {
		value := email.String
		emailPtr = &value
	}

	return &employee.Employee{
		ID:        id,
		Name:      name,
		Email:     emailPtr,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == employeeEmailUniqueConstraint {
			return employee.ErrEmailAlreadyExists
		}
		if pgErr.Code == stringTooLongCode {
			return fmt.Errorf("%w: %s", employee.ErrValueTooLong, pgErr.Message)
		}
	}

	return err
}
