package postgres

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/employee-directory/internal/core/department"
	pgdb "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
)

// DepartmentRepository は PostgreSQL を利用した部署永続化の実装です。
type DepartmentRepository struct {
	pool pgdb.Queryer
}

// NewDepartmentRepository は DepartmentRepository を生成します。
func NewDepartmentRepository(pool pgdb.Queryer) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

// CreateMany は部署を 1 文でまとめて作成し、入力と同じ順序で返します。
func (r *DepartmentRepository) CreateMany(ctx context.Context, departments []*department.Department) ([]*department.Department, error) {
	if len(departments) == 0 {
		return []*department.Department{}, nil
	}

	args := make([]any, 0, len(departments)*3)
	for _, d := range departments {
		args = append(args, d.Name, d.CreatedAt, d.UpdatedAt)
	}

	query := `INSERT INTO departments (name, created_at, updated_at) VALUES ` +
		valuesPlaceholders(len(departments), 3) +
		` RETURNING id, name, created_at, updated_at`

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	created := make([]*department.Department, 0, len(departments))
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 連番は VALUES の順に採番される
	sort.Slice(created, func(i, j int) bool { return created[i].ID < created[j].ID })
	return created, nil
}

// FindByID は ID で部署を取得します。
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, created_at, updated_at
          FROM departments
         WHERE id = $1
    `, id)

	found, err := scanDepartment(row)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// List は部署を ID 順に取得します。
func (r *DepartmentRepository) List(ctx context.Context) ([]*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, name, created_at, updated_at
          FROM departments
         ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]*department.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return departments, nil
}

func scanDepartment(row pgx.Row) (*department.Department, error) {
	var (
		id        int64
		name      string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, department.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &department.Department{ID: id, Name: name, CreatedAt: createdAt, UpdatedAt: updatedAt}, nil
}
