package models

import "time"

// Reactable kinds known to the shipped server. Any other kind can be added
// by registering a resolver for it; nothing below is specific to these two.
const (
	KindPost    = "post"
	KindComment = "comment"
)

// ReactableRef is a polymorphic pointer to a likeable object: Kind names the
// schema the object lives in, ID identifies it within that kind.
type ReactableRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Like represents a single user's reaction to a single target. The composite
// unique index on (user_id, target_kind, target_id) enforces at most one row
// per (user, target) pair at the schema level.
type Like struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index:idx_user_target,unique"`
	TargetKind string    `json:"target_kind" gorm:"size:32;not null;index:idx_user_target,unique;index:idx_target"`
	TargetID   string    `json:"target_id" gorm:"size:64;not null;index:idx_user_target,unique;index:idx_target"`
	CreatedAt  time.Time `json:"created_at"`
}

// Target returns the polymorphic reference this like points at.
func (l Like) Target() ReactableRef {
	return ReactableRef{Kind: l.TargetKind, ID: l.TargetID}
}
