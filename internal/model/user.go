package model

import "time"

// User is a library member. Pending members cannot log in until a librarian approves them.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:80;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role      Role      `json:"role" gorm:"size:20;not null;index"`
	Name      string    `json:"name,omitempty" gorm:"size:120"`
	StudentID string    `json:"student_id,omitempty" gorm:"size:40"`
	Pending   bool      `json:"pending" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}
