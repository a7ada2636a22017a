package postgres

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/employee-directory/internal/core/role"
	pgdb "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
)

// RoleRepository は PostgreSQL を利用した役職永続化の実装です。
type RoleRepository struct {
	pool pgdb.Queryer
}

// NewRoleRepository は RoleRepository を生成します。
func NewRoleRepository(pool pgdb.Queryer) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// CreateMany は役職を 1 文でまとめて作成し、入力と同じ順序で返します。
func (r *RoleRepository) CreateMany(ctx context.Context, roles []*role.Role) ([]*role.Role, error) {
	if len(roles) == 0 {
		return []*role.Role{}, nil
	}

	args := make([]any, 0, len(roles)*3)
	for _, rl := range roles {
		args = append(args, rl.Title, rl.CreatedAt, rl.UpdatedAt)
	}

	query := `INSERT INTO roles (title, created_at, updated_at) VALUES ` +
		valuesPlaceholders(len(roles), 3) +
		` RETURNING id, title, created_at, updated_at`

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	created := make([]*role.Role, 0, len(roles))
	for rows.Next() {
		rl, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, rl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 連番は VALUES の順に採番される
	sort.Slice(created, func(i, j int) bool { return created[i].ID < created[j].ID })
	return created, nil
}

// FindByID は ID で役職を取得します。
func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*role.Role, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, title, created_at, updated_at
          FROM roles
         WHERE id = $1
    `, id)

	found, err := scanRole(row)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// List は役職を ID 順に取得します。
func (r *RoleRepository) List(ctx context.Context) ([]*role.Role, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, title, created_at, updated_at
          FROM roles
         ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]*role.Role, 0)
	for rows.Next() {
		rl, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, rl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

func scanRole(row pgx.Row) (*role.Role, error) {
	var (
		id        int64
		title     string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &title, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, role.ErrRoleNotFound
		}
		return nil, err
	}
	return &role.Role{ID: id, Title: title, CreatedAt: createdAt, UpdatedAt: updatedAt}, nil
}
