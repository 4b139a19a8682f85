package types

import "time"

// VerificationCode is a short-lived email login code. Only the bcrypt hash
// of the code is stored.
type VerificationCode struct {
	Email     string    `gorm:"primaryKey;column:email" json:"email"`
	CodeHash  string    `gorm:"not null;column:code_hash" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
}

func (VerificationCode) TableName() string {
	return "verification_code"
}
