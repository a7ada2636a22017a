package department

import "time"

// Department は部署エンティティです。
type Department struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
