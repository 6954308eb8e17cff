package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBorrowRecordClose(t *testing.T) {
	rec := &BorrowRecord{BorrowDate: time.Now()}
	assert.Equal(t, BorrowStatusOpen, rec.Status())

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rec.Close(first)
	assert.Equal(t, BorrowStatusClosed, rec.Status())

	rec.Close(first.Add(time.Hour))
	assert.Equal(t, first, *rec.ReturnDate)
}

func TestRoleValid(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}
