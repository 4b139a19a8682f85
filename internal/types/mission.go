package types

import (
	"time"

	"github.com/google/uuid"
)

type Mission struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"not null;column:title" json:"title"`
	Description     string    `gorm:"not null;column:description" json:"description"`
	Tags            []string  `gorm:"serializer:json" json:"tags"`
	Location        string    `gorm:"column:location" json:"location"`
	StartTime       time.Time `gorm:"column:start_time" json:"start_time"`
	EndTime         time.Time `gorm:"column:end_time" json:"end_time"`
	Latitude        *float64  `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude       *float64  `gorm:"column:longitude" json:"longitude,omitempty"`
	Links           []string  `gorm:"serializer:json" json:"links"`
	Images          []string  `gorm:"serializer:json" json:"images"`
	MaxParticipants int       `gorm:"column:max_participants" json:"max_participants"`
	CreatorID       uuid.UUID `gorm:"type:uuid;not null;column:creator_id" json:"creator_id"`
	HardRSVPCount   int       `gorm:"not null;default:0;column:hard_rsvp_count" json:"hard_rsvp_count"`
	SoftRSVPCount   int       `gorm:"not null;default:0;column:soft_rsvp_count" json:"soft_rsvp_count"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Mission) TableName() string {
	return "mission"
}

type MissionRSVP struct {
	MissionID uuid.UUID `gorm:"type:uuid;primaryKey;column:mission_id" json:"mission_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	RSVPType  string    `gorm:"not null;default:hard;column:rsvp_type" json:"rsvp_type"`
	RSVPedAt  time.Time `gorm:"not null;column:rsvped_at" json:"rsvped_at"`
}

func (MissionRSVP) TableName() string {
	return "mission_rsvp"
}
