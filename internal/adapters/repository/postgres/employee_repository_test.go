package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

type stubRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

var employeeColumns = []string{"id", "name", "email", "created_at", "updated_at"}

func TestScanEmployee_Success(t *testing.T) {
	t.Parallel()

	email := "rahul.sharma@example.com"
	createdAt := time.Now().UTC()
	updatedAt := createdAt.Add(time.Minute)

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 5 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*int64)) = 1
		*(dest[1].(*string)) = "Rahul Sharma"

		emailDest := dest[2].(*sql.NullString)
		emailDest.String = email
		emailDest.Valid = true

		*(dest[3].(*time.Time)) = createdAt
		*(dest[4].(*time.Time)) = updatedAt
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}

	if emp.ID != 1 || emp.Name != "Rahul Sharma" {
		t.Fatalf("unexpected employee %+v", emp)
	}
	if emp.Email == nil || *emp.Email != email {
		t.Fatalf("expected email %s, got %+v", email, emp.Email)
	}
	if !emp.UpdatedAt.Equal(updatedAt) {
		t.Fatalf("expected updated_at %v, got %v", updatedAt, emp.UpdatedAt)
	}
}

func TestScanEmployee_NullEmail(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		*(dest[0].(*int64)) = 2
		*(dest[1].(*string)) = "Priya Singh"
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}
	if emp.Email != nil {
		t.Fatalf("expected nil email, got %q", *emp.Email)
	}
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanEmployee(row)
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: employeeEmailUniqueConstraint}
	if !errors.Is(translateEmployeePgError(uniqueErr), employee.ErrEmailAlreadyExists) {
		t.Fatalf("expected unique violation to map to ErrEmailAlreadyExists")
	}

	otherUnique := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "employees_pkey"}
	if translateEmployeePgError(otherUnique) != error(otherUnique) {
		t.Fatalf("unexpected translation for unrelated unique violation")
	}

	if !errors.Is(translateEmployeePgError(pgx.ErrNoRows), employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrNoRows to map to ErrEmployeeNotFound")
	}

	tooLong := &pgconn.PgError{Code: stringTooLongCode, Message: "value too long for type character varying(255)"}
	if !errors.Is(translateEmployeePgError(tooLong), employee.ErrValueTooLong) {
		t.Fatalf("expected string truncation to map to ErrValueTooLong")
	}

	other := errors.New("other")
	if translateEmployeePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestEmployeeRepository_Create(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	email := "ankit.verma@example.com"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO employees (name, email, created_at, updated_at)`)).
		WithArgs("Ankit Verma", email, now, now).
		WillReturnRows(pgxmock.NewRows(employeeColumns).AddRow(int64(3), "Ankit Verma", email, now, now))

	created, err := repo.Create(context.Background(), &employee.Employee{
		Name:      "Ankit Verma",
		Email:     &email,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 3 {
		t.Fatalf("expected id 3, got %d", created.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	email := "dup@example.com"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO employees`)).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: employeeEmailUniqueConstraint})

	_, err = repo.Create(context.Background(), &employee.Employee{Name: "Dup", Email: &email})
	if !errors.Is(err, employee.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestEmployeeRepository_CreateMany(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO employees (name, email, created_at, updated_at) VALUES ($1, $2, $3, $4), ($5, $6, $7, $8) RETURNING`)).
		WithArgs("Rahul Sharma", nil, now, now, "Priya Singh", nil, now, now).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(int64(2), "Priya Singh", nil, now, now).
			AddRow(int64(1), "Rahul Sharma", nil, now, now))

	created, err := repo.CreateMany(context.Background(), []*employee.Employee{
		{Name: "Rahul Sharma", CreatedAt: now, UpdatedAt: now},
		{Name: "Priya Singh", CreatedAt: now, UpdatedAt: now},
	})
	if err != nil {
		t.Fatalf("CreateMany returned error: %v", err)
	}
	if len(created) != 2 || created[0].Name != "Rahul Sharma" || created[1].Name != "Priya Singh" {
		t.Fatalf("expected input order, got %+v", created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Update_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE employees`)).
		WithArgs("Ghost", nil, now, int64(404)).
		WillReturnRows(pgxmock.NewRows(employeeColumns))

	_, err = repo.Update(context.Background(), &employee.Employee{ID: 404, Name: "Ghost", UpdatedAt: now})
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestEmployeeRepository_Delete_ReturnsRowsAffected(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM employees WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	n, err := repo.Delete(context.Background(), 99)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows affected, got %d", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_List_Variants(t *testing.T) {
	t.Parallel()

	departmentID := int64(1)
	roleID := int64(3)

	tests := []struct {
		name   string
		filter employee.ListEmployeesFilter
		query  string
		args   []interface{}
	}{
		{
			name:   "all by id",
			filter: employee.ListEmployeesFilter{},
			query:  `SELECT e.id, e.name, e.email, e.created_at, e.updated_at FROM employees e ORDER BY e.id ASC`,
		},
		{
			name:   "by department",
			filter: employee.ListEmployeesFilter{DepartmentID: &departmentID},
			query:  `FROM employees e WHERE e.id IN (SELECT employee_id FROM employee_departments WHERE department_id = $1) ORDER BY e.id ASC`,
			args:   []interface{}{departmentID},
		},
		{
			name:   "by department and role",
			filter: employee.ListEmployeesFilter{DepartmentID: &departmentID, RoleID: &roleID},
			query:  `WHERE e.id IN (SELECT employee_id FROM employee_departments WHERE department_id = $1) AND e.id IN (SELECT employee_id FROM employee_roles WHERE role_id = $2)`,
			args:   []interface{}{departmentID, roleID},
		},
		{
			name:   "sorted by name desc",
			filter: employee.ListEmployeesFilter{OrderByName: employee.SortDesc},
			query:  `FROM employees e ORDER BY e.name DESC, e.id DESC`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock pool: %v", err)
			}
			defer mock.Close()

			now := time.Now().UTC()
			expect := mock.ExpectQuery(regexp.QuoteMeta(tt.query))
			if len(tt.args) > 0 {
				expect = expect.WithArgs(tt.args...)
			}
			expect.WillReturnRows(pgxmock.NewRows(employeeColumns).
				AddRow(int64(1), "Rahul Sharma", "rahul.sharma@example.com", now, now))

			employees, err := NewEmployeeRepository(mock).List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if len(employees) != 1 {
				t.Fatalf("expected 1 employee, got %d", len(employees))
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestEmployeeRepository_List_Empty(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM employees e`)).
		WillReturnRows(pgxmock.NewRows(employeeColumns))

	employees, err := NewEmployeeRepository(mock).List(context.Background(), employee.ListEmployeesFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if employees == nil || len(employees) != 0 {
		t.Fatalf("expected empty non-nil slice, got %+v", employees)
	}
}
