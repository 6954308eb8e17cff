package model

import "time"

// BorrowStatus is derived from ReturnDate.
type BorrowStatus string

const (
	BorrowStatusOpen   BorrowStatus = "open"
	BorrowStatusClosed BorrowStatus = "closed"
)

// BorrowRecord links a member to a book they hold or held.
type BorrowRecord struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     uint       `json:"user_id" gorm:"not null;index"`
	BookID     uint       `json:"book_id" gorm:"not null;index"`
	BorrowDate time.Time  `json:"borrow_date" gorm:"not null"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	// Unused; kept for parity with existing databases.
	Restore bool `json:"restore" gorm:"not null"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
}

// Status reports whether the record is still open.
func (r *BorrowRecord) Status() BorrowStatus {
	if r.ReturnDate == nil {
		return BorrowStatusOpen
	}
	return BorrowStatusClosed
}

// Close stamps the return date. Closing an already closed record keeps the first date.
func (r *BorrowRecord) Close(at time.Time) {
	if r.ReturnDate != nil {
		return
	}
	r.ReturnDate = &at
}
