package role

import "context"

// Repository は役職の永続化を行うインターフェースです。
type Repository interface {
	CreateMany(ctx context.Context, roles []*Role) ([]*Role, error)
	FindByID(ctx context.Context, id int64) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
}
