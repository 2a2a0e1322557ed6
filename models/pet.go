package models

import "time"

// Pet belongs to exactly one owning user (a client).
type Pet struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Breed        string    `json:"breed"`
	Age          int       `gorm:"check:age > 0" json:"age"`
	SpecialNeeds string    `json:"specialNeeds"`
	Notes        string    `json:"notes"`
	OwnerID      uint      `gorm:"not null;index" json:"ownerId"`
	Owner        *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Pet model
func (Pet) TableName() string {
	return "pets"
}
