package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/librarium/lending-api/internal/models"
)

func Test_Book_Validate(t *testing.T) {
	assert.NoError(t, models.Book{Title: "Clean Code", Author: "Robert C. Martin"}.Validate())
	assert.EqualError(t, models.Book{Author: "x"}.Validate(), "title required")
	assert.EqualError(t, models.Book{Title: "   ", Author: "x"}.Validate(), "title required")
	assert.EqualError(t, models.Book{Title: "x"}.Validate(), "author required")
}

func Test_BorrowRecord_Open(t *testing.T) {
	rec := models.BorrowRecord{BookID: 1, BorrowedAt: time.Now()}
	assert.True(t, rec.Open())

	now := time.Now()
	rec.ReturnedAt = &now
	assert.False(t, rec.Open())
}
