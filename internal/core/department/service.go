package department

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

// Service は部署に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
}

// UseCase は部署ユースケースの公開インターフェースです。
type UseCase interface {
	ListDepartments(ctx context.Context) ([]*Department, error)
	GetDepartment(ctx context.Context, id int64) (*Department, error)
	CreateDepartments(ctx context.Context, names []string) ([]*Department, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// ListDepartments は部署を ID 順に返します。
func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	return s.repo.List(ctx)
}

// GetDepartment は部署を取得します。
func (s *Service) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

// CreateDepartments は複数の部署を一括作成し、入力と同じ順序で返します。
func (s *Service) CreateDepartments(ctx context.Context, names []string) ([]*Department, error) {
	now := s.clock.Now()
	departments := make([]*Department, 0, len(names))
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("departments[%d]: %w", i, ErrInvalidName)
		}
		departments = append(departments, &Department{Name: name, CreatedAt: now, UpdatedAt: now})
	}
	if len(departments) == 0 {
		return []*Department{}, nil
	}
	return s.repo.CreateMany(ctx, departments)
}
