// Package seed はデータベースを初期状態に戻し、デモ用データを投入します。
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/core/role"
)

// SchemaResetter はスキーマを破棄して作り直します。migration.Migrator が満たします。
type SchemaResetter interface {
	Reset() error
}

// DepartmentCreator は部署を一括作成します。department.Service が満たします。
type DepartmentCreator interface {
	CreateDepartments(ctx context.Context, names []string) ([]*department.Department, error)
}

// RoleCreator は役職を一括作成します。role.Service が満たします。
type RoleCreator interface {
	CreateRoles(ctx context.Context, titles []string) ([]*role.Role, error)
}

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Dependencies は Service が利用するコンポーネント群です。
type Dependencies struct {
	Schema      SchemaResetter
	Departments DepartmentCreator
	Roles       RoleCreator
	Employees   employee.Repository
	Memberships employee.MembershipRepository
	Tx          employee.TransactionManager
	Clock       Clock
	Fixtures    *Fixtures
}

// Result は投入件数です。
type Result struct {
	Departments int
	Roles       int
	Employees   int
}

// UseCase はシード投入の公開インターフェースです。
type UseCase interface {
	Seed(ctx context.Context) (*Result, error)
}

// Service は UseCase の実装です。
type Service struct {
	schema      SchemaResetter
	departments DepartmentCreator
	roles       RoleCreator
	employees   employee.Repository
	memberships employee.MembershipRepository
	tx          employee.TransactionManager
	clock       Clock
	fixtures    Fixtures
}

// NewService は Service を生成します。Fixtures が nil の場合は DefaultFixtures を使用します。
func NewService(deps Dependencies) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = realClock{}
	}
	fixtures := DefaultFixtures()
	if deps.Fixtures != nil {
		fixtures = *deps.Fixtures
	}
	return &Service{
		schema:      deps.Schema,
		departments: deps.Departments,
		roles:       deps.Roles,
		employees:   deps.Employees,
		memberships: deps.Memberships,
		tx:          deps.Tx,
		clock:       clock,
		fixtures:    fixtures,
	}
}

// Seed はスキーマをリセットした後、1 トランザクションで初期データを投入します。
func (s *Service) Seed(ctx context.Context) (*Result, error) {
	if s.schema != nil {
		if err := s.schema.Reset(); err != nil {
			return nil, fmt.Errorf("seed: reset schema: %w", err)
		}
	}

	var result *Result
	run := func(txCtx context.Context) error {
		r, err := s.insert(txCtx)
		if err != nil {
			return err
		}
		result = r
		return nil
	}

	var err error
	if s.tx != nil {
		err = s.tx.WithinReadWrite(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) insert(ctx context.Context) (*Result, error) {
	now := s.clock.Now()

	createdDepartments, err := s.departments.CreateDepartments(ctx, s.fixtures.Departments)
	if err != nil {
		return nil, fmt.Errorf("seed: departments: %w", err)
	}
	departmentIDs := make(map[string]int64, len(createdDepartments))
	for _, d := range createdDepartments {
		departmentIDs[d.Name] = d.ID
	}

	createdRoles, err := s.roles.CreateRoles(ctx, s.fixtures.Roles)
	if err != nil {
		return nil, fmt.Errorf("seed: roles: %w", err)
	}
	roleIDs := make(map[string]int64, len(createdRoles))
	for _, r := range createdRoles {
		roleIDs[r.Title] = r.ID
	}

	employees := make([]*employee.Employee, 0, len(s.fixtures.Employees))
	for _, fx := range s.fixtures.Employees {
		emp := &employee.Employee{Name: fx.Name, CreatedAt: now, UpdatedAt: now}
		if fx.Email != "" {
			email := fx.Email
			emp.Email = &email
		}
		employees = append(employees, emp)
	}
	createdEmployees, err := s.employees.CreateMany(ctx, employees)
	if err != nil {
		return nil, fmt.Errorf("seed: employees: %w", err)
	}

	for i, fx := range s.fixtures.Employees {
		employeeID := createdEmployees[i].ID

		departmentID, ok := departmentIDs[fx.Department]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, fx.Department)
		}
		if err := s.memberships.AddDepartment(ctx, employeeID, departmentID); err != nil {
			return nil, fmt.Errorf("seed: wire %s to %s: %w", fx.Name, fx.Department, err)
		}

		roleID, ok := roleIDs[fx.Role]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, fx.Role)
		}
		if err := s.memberships.AddRole(ctx, employeeID, roleID); err != nil {
			return nil, fmt.Errorf("seed: wire %s to %s: %w", fx.Name, fx.Role, err)
		}
	}

	return &Result{
		Departments: len(createdDepartments),
		Roles:       len(createdRoles),
		Employees:   len(createdEmployees),
	}, nil
}
