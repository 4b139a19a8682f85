package types

import (
	"time"

	"github.com/google/uuid"
)

// Pod is an accepted group, created exactly once when its originating
// signal transitions to accepted. Lasts 7 days.
type Pod struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Members   []uuid.UUID `gorm:"serializer:json" json:"members"`
	SignalID  uuid.UUID   `gorm:"type:uuid;not null;column:signal_id" json:"signal_id"`
	Revealed  bool        `gorm:"not null;default:false;column:revealed" json:"revealed"`
	CreatedAt time.Time   `gorm:"not null;index" json:"created_at"`
	ExpiresAt time.Time   `gorm:"not null;column:expires_at" json:"expires_at"`
}

func (Pod) TableName() string {
	return "pod"
}

// Contains reports whether userID is a member of the pod.
func (p *Pod) Contains(userID uuid.UUID) bool {
	if p == nil {
		return false
	}
	for _, id := range p.Members {
		if id == userID {
			return true
		}
	}
	return false
}
