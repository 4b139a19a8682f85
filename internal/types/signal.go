package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	SignalStatusPending  = "pending"
	SignalStatusAccepted = "accepted"
	SignalStatusExpired  = "expired"
)

// Signal is a pending group invite. It expires 7 days after creation and
// becomes accepted exactly when every target user has accepted.
type Signal struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID       uuid.UUID   `gorm:"type:uuid;not null;column:creator_id" json:"creator_id"`
	TargetUserIDs   []uuid.UUID `gorm:"serializer:json;type:jsonb" json:"target_user_ids"`
	AcceptedUserIDs []uuid.UUID `gorm:"serializer:json;type:jsonb" json:"accepted_user_ids"`
	Status          string      `gorm:"not null;default:pending;index;column:status" json:"status"`
	CreatedAt       time.Time   `gorm:"not null;index" json:"created_at"`
	ExpiresAt       time.Time   `gorm:"not null;column:expires_at" json:"expires_at"`
}

func (Signal) TableName() string {
	return "signal"
}

// Targets reports whether userID is among the signal's target users.
func (s *Signal) Targets(userID uuid.UUID) bool {
	if s == nil {
		return false
	}
	for _, id := range s.TargetUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// FullyAccepted reports whether every target user has accepted.
func (s *Signal) FullyAccepted() bool {
	if s == nil {
		return false
	}
	accepted := make(map[uuid.UUID]bool, len(s.AcceptedUserIDs))
	for _, id := range s.AcceptedUserIDs {
		accepted[id] = true
	}
	for _, id := range s.TargetUserIDs {
		if !accepted[id] {
			return false
		}
	}
	return true
}
