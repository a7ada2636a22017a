package employee

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/role"
)

// MaxFieldLength は name / email 列 (VARCHAR(255)) に格納できる最大文字数です。
const MaxFieldLength = 255

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Dependencies は Service が利用するリポジトリ群です。
type Dependencies struct {
	Employees   Repository
	Memberships MembershipRepository
	Departments department.Repository
	Roles       role.Repository
	Clock       Clock
	Tx          TransactionManager
}

// Service は社員に関するユースケースと、所属情報の集約処理をまとめます。
type Service struct {
	repo        Repository
	memberships MembershipRepository
	departments department.Repository
	roles       role.Repository
	clock       Clock
	tx          TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	ListEmployees(ctx context.Context) ([]*Details, error)
	GetEmployee(ctx context.Context, id int64) (*Details, error)
	ListEmployeesByDepartment(ctx context.Context, departmentID int64) ([]*Details, error)
	ListEmployeesByRole(ctx context.Context, roleID int64) ([]*Details, error)
	ListEmployeesSortedByName(ctx context.Context, order SortOrder) ([]*Details, error)
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Details, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Details, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

// NewService は Service を生成します。
func NewService(deps Dependencies) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = realClock{}
	}
	tx := deps.Tx
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		repo:        deps.Employees,
		memberships: deps.Memberships,
		departments: deps.Departments,
		roles:       deps.Roles,
		clock:       clock,
		tx:          tx,
	}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Name         string
	Email        *string
	DepartmentID int64
	RoleID       int64
}

// UpdateEmployeeInput は社員更新時の入力です。nil のフィールドは変更しません。
type UpdateEmployeeInput struct {
	ID           int64
	Name         *string
	Email        *string
	DepartmentID *int64
	RoleID       *int64
}

// DepartmentsForEmployee は社員が所属する部署を返します。所属がなければ空スライスです。
func (s *Service) DepartmentsForEmployee(ctx context.Context, employeeID int64) ([]department.Department, error) {
	var result []department.Department
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		byEmployee, err := s.memberships.DepartmentsFor(txCtx, []int64{employeeID})
		if err != nil {
			return err
		}
		result = nonNilDepartments(byEmployee[employeeID])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RolesForEmployee は社員の役職を返します。役職がなければ空スライスです。
func (s *Service) RolesForEmployee(ctx context.Context, employeeID int64) ([]role.Role, error) {
	var result []role.Role
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		byEmployee, err := s.memberships.RolesFor(txCtx, []int64{employeeID})
		if err != nil {
			return err
		}
		result = nonNilRoles(byEmployee[employeeID])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Details は社員の基本情報に部署と役職を合成します。
func (s *Service) Details(ctx context.Context, emp *Employee) (*Details, error) {
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}

	var result *Details
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		details, err := s.aggregate(txCtx, []*Employee{emp})
		if err != nil {
			return err
		}
		result = details[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListEmployees はすべての社員を ID 順に返します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Details, error) {
	return s.list(ctx, ListEmployeesFilter{})
}

// GetEmployee は社員を 1 件取得します。
func (s *Service) GetEmployee(ctx context.Context, id int64) (*Details, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Details
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		details, err := s.aggregate(txCtx, []*Employee{found})
		if err != nil {
			return err
		}
		result = details[0]
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployeesByDepartment は指定部署に所属する社員を返します。
func (s *Service) ListEmployeesByDepartment(ctx context.Context, departmentID int64) ([]*Details, error) {
	if departmentID <= 0 {
		return nil, fmt.Errorf("departmentId: %w", department.ErrInvalidID)
	}
	return s.list(ctx, ListEmployeesFilter{DepartmentID: &departmentID})
}

// ListEmployeesByRole は指定役職の社員を返します。
func (s *Service) ListEmployeesByRole(ctx context.Context, roleID int64) ([]*Details, error) {
	if roleID <= 0 {
		return nil, fmt.Errorf("roleId: %w", role.ErrInvalidID)
	}
	return s.list(ctx, ListEmployeesFilter{RoleID: &roleID})
}

// ListEmployeesSortedByName は名前順に社員を返します。同名の場合は ID を同じ向きで並べます。
func (s *Service) ListEmployeesSortedByName(ctx context.Context, order SortOrder) ([]*Details, error) {
	if order != SortAsc && order != SortDesc {
		return nil, ErrInvalidSortOrder
	}
	return s.list(ctx, ListEmployeesFilter{OrderByName: order})
}

// CreateEmployee は社員を作成し、指定の部署・役職に所属させます。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Details, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	email, err := normalizeOptionalEmail(in.Email)
	if err != nil {
		return nil, err
	}

	if in.DepartmentID <= 0 {
		return nil, fmt.Errorf("departmentId: %w", department.ErrInvalidID)
	}
	if in.RoleID <= 0 {
		return nil, fmt.Errorf("roleId: %w", role.ErrInvalidID)
	}

	var result *Details
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureDepartment(txCtx, in.DepartmentID); err != nil {
			return err
		}
		if err := s.ensureRole(txCtx, in.RoleID); err != nil {
			return err
		}

		now := s.clock.Now()
		created, err := s.repo.Create(txCtx, &Employee{
			Name:      name,
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		if err := s.memberships.AddDepartment(txCtx, created.ID, in.DepartmentID); err != nil {
			return err
		}
		if err := s.memberships.AddRole(txCtx, created.ID, in.RoleID); err != nil {
			return err
		}

		details, err := s.aggregate(txCtx, []*Employee{created})
		if err != nil {
			return err
		}
		result = details[0]
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateEmployee は指定されたフィールドのみを更新します。
// 部署・役職が指定された場合は既存の所属をすべて削除してから登録し直します。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Details, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Details
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		changed := false
		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return err
			}
			existing.Name = name
			changed = true
		}

		if in.Email != nil {
			email, err := normalizeOptionalEmail(in.Email)
			if err != nil {
				return err
			}
			existing.Email = email
			changed = true
		}

		if changed {
			existing.UpdatedAt = s.clock.Now()
			existing, err = s.repo.Update(txCtx, existing)
			if err != nil {
				return err
			}
		}

		if in.DepartmentID != nil {
			if err := s.replaceDepartment(txCtx, existing.ID, *in.DepartmentID); err != nil {
				return err
			}
		}

		if in.RoleID != nil {
			if err := s.replaceRole(txCtx, existing.ID, *in.RoleID); err != nil {
				return err
			}
		}

		details, err := s.aggregate(txCtx, []*Employee{existing})
		if err != nil {
			return err
		}
		result = details[0]
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteEmployee は社員と所属情報を削除します。存在しない ID でもエラーにはなりません。
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.memberships.RemoveDepartments(txCtx, id); err != nil {
			return err
		}
		if err := s.memberships.RemoveRoles(txCtx, id); err != nil {
			return err
		}
		_, err := s.repo.Delete(txCtx, id)
		return err
	})
}

func (s *Service) list(ctx context.Context, filter ListEmployeesFilter) ([]*Details, error) {
	var result []*Details
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		employees, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		details, err := s.aggregate(txCtx, employees)
		if err != nil {
			return err
		}
		result = details
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// aggregate は社員一覧に対して部署・役職をまとめて取得し、入力と同じ順序で Details を返します。
func (s *Service) aggregate(ctx context.Context, employees []*Employee) ([]*Details, error) {
	if len(employees) == 0 {
		return []*Details{}, nil
	}

	ids := make([]int64, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}

	departments, err := s.memberships.DepartmentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	roles, err := s.memberships.RolesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]*Details, 0, len(employees))
	for _, emp := range employees {
		details = append(details, &Details{
			Employee:    *emp,
			Departments: nonNilDepartments(departments[emp.ID]),
			Roles:       nonNilRoles(roles[emp.ID]),
		})
	}
	return details, nil
}

func (s *Service) replaceDepartment(ctx context.Context, employeeID, departmentID int64) error {
	if departmentID <= 0 {
		return fmt.Errorf("departmentId: %w", department.ErrInvalidID)
	}
	if err := s.ensureDepartment(ctx, departmentID); err != nil {
		return err
	}
	if err := s.memberships.RemoveDepartments(ctx, employeeID); err != nil {
		return err
	}
	return s.memberships.AddDepartment(ctx, employeeID, departmentID)
}

func (s *Service) replaceRole(ctx context.Context, employeeID, roleID int64) error {
	if roleID <= 0 {
		return fmt.Errorf("roleId: %w", role.ErrInvalidID)
	}
	if err := s.ensureRole(ctx, roleID); err != nil {
		return err
	}
	if err := s.memberships.RemoveRoles(ctx, employeeID); err != nil {
		return err
	}
	return s.memberships.AddRole(ctx, employeeID, roleID)
}

func (s *Service) ensureDepartment(ctx context.Context, id int64) error {
	if _, err := s.departments.FindByID(ctx, id); err != nil {
		return fmt.Errorf("departmentId %d: %w", id, err)
	}
	return nil
}

func (s *Service) ensureRole(ctx context.Context, id int64) error {
	if _, err := s.roles.FindByID(ctx, id); err != nil {
		return fmt.Errorf("roleId %d: %w", id, err)
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxFieldLength {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizeOptionalEmail(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxFieldLength {
		return nil, ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return nil, ErrInvalidEmail
	}

	// ローカル部はそのまま保持し、ドメインのみ小文字化する
	at := strings.LastIndex(trimmed, "@")
	local, domain := trimmed[:at], strings.ToLower(trimmed[at+1:])
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return nil, ErrInvalidEmail
	}

	email := local + "@" + domain
	return &email, nil
}

func nonNilDepartments(in []department.Department) []department.Department {
	if in == nil {
		return []department.Department{}
	}
	return in
}

func nonNilRoles(in []role.Role) []role.Role {
	if in == nil {
		return []role.Role{}
	}
	return in
}
