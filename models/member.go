package models

import "time"

const DefaultMemberOrder = 999

type Member struct {
	ID         uint   `gorm:"primaryKey" json:"_id"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Instrument string `gorm:"size:255;not null" json:"instrument"`
	Bio        string `gorm:"type:text" json:"bio"`
	Image      string `gorm:"size:512;not null" json:"image"`
	IsCaptain  bool   `gorm:"column:is_captain;not null" json:"isCaptain"`
	// order is a reserved word in MySQL
	Order  int  `gorm:"column:display_order;not null;index" json:"order"`
	Active bool `gorm:"not null;index" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
