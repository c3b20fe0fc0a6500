package models

import "time"

// Category is a fixed classification tag for posts, seeded once at startup.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:32;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Posts     []Post    `json:"-"`
}
