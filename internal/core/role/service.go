package role

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service は役職に関するユースケースです。
type Service struct {
	repo  Repository
	clock Clock
}

// UseCase は役職ユースケースの公開インターフェースです。
type UseCase interface {
	ListRoles(ctx context.Context) ([]*Role, error)
	GetRole(ctx context.Context, id int64) (*Role, error)
	CreateRoles(ctx context.Context, titles []string) ([]*Role, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetRole(ctx context.Context, id int64) (*Role, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

// CreateRoles は複数の役職を一括作成し、入力と同じ順序で返します。
func (s *Service) CreateRoles(ctx context.Context, titles []string) ([]*Role, error) {
	now := s.clock.Now()
	roles := make([]*Role, 0, len(titles))
	for i, raw := range titles {
		title := strings.TrimSpace(raw)
		if title == "" {
			return nil, fmt.Errorf("roles[%d]: %w", i, ErrInvalidTitle)
		}
		roles = append(roles, &Role{Title: title, CreatedAt: now, UpdatedAt: now})
	}
	if len(roles) == 0 {
		return []*Role{}, nil
	}
	return s.repo.CreateMany(ctx, roles)
}
