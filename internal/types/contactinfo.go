package types

import (
	"time"

	"github.com/google/uuid"
)

// ContactInfo is a user's revealable contact info, shown to pod members
// once a pod is revealed. Fields are upserted individually.
type ContactInfo struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	Instagram *string   `gorm:"column:instagram" json:"instagram,omitempty"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ContactInfo) TableName() string {
	return "contact_info"
}
