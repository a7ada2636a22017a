package role

import "time"

// Role は役職エンティティです。
type Role struct {
	ID        int64
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
