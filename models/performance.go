package models

import (
	"time"

	"gorm.io/datatypes"
)

type Performance struct {
	ID    uint   `gorm:"primaryKey" json:"_id"`
	Title string `gorm:"size:255;not null" json:"title"`
	// Date is kept exactly as submitted; EventDate is its parsed calendar day.
	Date        string         `gorm:"size:64;not null" json:"date"`
	EventDate   datatypes.Date `gorm:"column:event_date;index" json:"-"`
	Venue       string         `gorm:"size:255;not null" json:"venue"`
	City        string         `gorm:"size:255;not null" json:"city"`
	Image       string         `gorm:"size:512;not null" json:"image"`
	Description string         `gorm:"type:text" json:"description"`
	TicketLink  string         `gorm:"size:1024;not null" json:"ticketLink"`
	Active      bool           `gorm:"not null;index" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
