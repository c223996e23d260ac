package models

import "time"

type AuditAction string

const (
	AuditBookBorrowed AuditAction = "book_borrowed"
	AuditBookReturned AuditAction = "book_returned"
)

// AuditEvent is an append-only trace of a lending transition. Writes happen
// off the request path; losing one is logged, never surfaced to the caller.
type AuditEvent struct {
	ID        int64          `json:"id"`
	BookID    int64          `json:"book_id"`
	Action    AuditAction    `json:"action"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
