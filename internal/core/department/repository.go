package department

import "context"

// Repository は部署の永続化を行うインターフェースです。
type Repository interface {
	CreateMany(ctx context.Context, departments []*Department) ([]*Department, error)
	FindByID(ctx context.Context, id int64) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
}
