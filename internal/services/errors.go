package services

import "fmt"

// NotFoundError reports a book id with no catalog row.
type NotFoundError struct {
	ID int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("book %d not found", e.ID)
}

// NotAvailableError reports a borrow attempt on a book that is already out.
type NotAvailableError struct {
	ID int64
}

func (e NotAvailableError) Error() string {
	return fmt.Sprintf("book %d is not available", e.ID)
}

// NotBorrowedError reports a return attempt on a book with no open loan.
type NotBorrowedError struct {
	ID int64
}

func (e NotBorrowedError) Error() string {
	return fmt.Sprintf("book %d is not currently borrowed", e.ID)
}
