package models

import "time"

// ResetToken holds the bcrypt hash of a password-reset secret. The plaintext
// only ever exists in the emailed link.
type ResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	AdminID   uint      `gorm:"uniqueIndex;not null"`
	TokenHash string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"index"`

	Admin Admin `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE"`
}

// Expired reports whether the token is past its ttl at now.
func (t ResetToken) Expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(t.CreatedAt.Add(ttl))
}
