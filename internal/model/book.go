package model

import "time"

// Book is a single physical copy in the catalog.
type Book struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Author    string    `json:"author" gorm:"size:255;not null"`
	Location  string    `json:"location" gorm:"size:120;not null"`
	Available bool      `json:"available" gorm:"not null;index"`
	TimeAdded time.Time `json:"time_added" gorm:"column:time_added;autoCreateTime"`
}
