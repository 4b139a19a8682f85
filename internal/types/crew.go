package types

import (
	"time"

	"github.com/google/uuid"
)

type Crew struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;column:creator_id" json:"creator_id"`
	MemberCount int       `gorm:"not null;default:0;column:member_count" json:"member_count"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Crew) TableName() string {
	return "crew"
}

type CrewMember struct {
	CrewID   uuid.UUID `gorm:"type:uuid;primaryKey;column:crew_id" json:"crew_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
}

func (CrewMember) TableName() string {
	return "crew_member"
}
