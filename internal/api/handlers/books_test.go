package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarium/lending-api/internal/repository/memory"
	"github.com/librarium/lending-api/internal/router"
	"github.com/librarium/lending-api/internal/services"
)

func Test_ParseBookID(t *testing.T) {
	tests := []struct {
		raw     string
		id      int64
		wantErr error
	}{
		{raw: "1", id: 1},
		{raw: "42", id: 42},
		{raw: "9223372036854775807", id: 9223372036854775807},
		{raw: "", wantErr: errMalformedID},
		{raw: "abc", wantErr: errMalformedID},
		{raw: "12x", wantErr: errMalformedID},
		{raw: "-1", wantErr: errMalformedID},
		{raw: "1.5", wantErr: errMalformedID},
		{raw: " 7", wantErr: errMalformedID},
		{raw: "0", wantErr: errNoSuchID},
		{raw: "007", wantErr: errNoSuchID},
		{raw: "9223372036854775808", wantErr: errNoSuchID},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			id, err := parseBookID(tc.raw)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.id, id)
		})
	}
}

func newTestRouter(t *testing.T) (*router.Router, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := services.NewLendingService(store, memory.NewAuditTrail(), nil, nil)
	rt := router.New(nil)
	NewBooks(svc, nil).Register(rt)
	return rt, store
}

func do(t *testing.T, rt *router.Router, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func book(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "data must be an object, got %T", body["data"])
	b, ok := data["book"].(map[string]any)
	require.True(t, ok, "data.book must be an object, got %T", data["book"])
	return b
}

func Test_List_EmptyCatalog(t *testing.T) {
	rt, _ := newTestRouter(t)

	w, body := do(t, rt, http.MethodGet, "/books")
	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	books, ok := data["books"].([]any)
	require.True(t, ok, "data.books must be an array, got %T", data["books"])
	assert.Empty(t, books)
}

func Test_List_ReportsAvailability(t *testing.T) {
	rt, store := newTestRouter(t)
	store.AddBook("Clean Code", "Robert C. Martin")
	store.AddBook("Design Patterns", "Gamma, Helm, Johnson, Vlissides")

	_, body := do(t, rt, http.MethodPost, "/books/2/borrow")
	require.Equal(t, float64(http.StatusOK), body["status"])

	w, body := do(t, rt, http.MethodGet, "/books")
	require.Equal(t, http.StatusOK, w.Code)
	books := body["data"].(map[string]any)["books"].([]any)
	require.Len(t, books, 2)

	first := books[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "Clean Code", first["title"])
	assert.Equal(t, "Robert C. Martin", first["author"])
	assert.Equal(t, true, first["available"])
	assert.Nil(t, first["borrowed_at"])

	second := books[1].(map[string]any)
	assert.Equal(t, false, second["available"])
	assert.NotNil(t, second["borrowed_at"])
}

func Test_Get_IDTaxonomy(t *testing.T) {
	rt, store := newTestRouter(t)
	store.AddBook("Clean Code", "Robert C. Martin")

	tests := []struct {
		name    string
		path    string
		status  int
		message string
	}{
		{name: "known_id", path: "/books/1", status: http.StatusOK},
		{name: "unknown_id", path: "/books/99", status: http.StatusNotFound, message: "book 99 not found"},
		{name: "non_numeric", path: "/books/abc", status: http.StatusBadRequest, message: `invalid book id "abc"`},
		{name: "negative", path: "/books/-1", status: http.StatusBadRequest, message: `invalid book id "-1"`},
		{name: "zero", path: "/books/0", status: http.StatusNotFound, message: `no book with id "0"`},
		{name: "leading_zeros", path: "/books/01", status: http.StatusNotFound, message: `no book with id "01"`},
		{name: "overflow", path: "/books/99999999999999999999", status: http.StatusNotFound, message: `no book with id "99999999999999999999"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, body := do(t, rt, http.MethodGet, tc.path)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, float64(tc.status), body["status"])
			if tc.message != "" {
				assert.Equal(t, tc.message, body["error"])
			}
		})
	}
}

func Test_Get_WrapsBookInEnvelope(t *testing.T) {
	rt, store := newTestRouter(t)
	store.AddBook("Clean Code", "Robert C. Martin")

	w, body := do(t, rt, http.MethodGet, "/books/1")
	require.Equal(t, http.StatusOK, w.Code)
	b := book(t, body)
	assert.Equal(t, "Clean Code", b["title"])
	_, hasMessage := body["data"].(map[string]any)["message"]
	assert.False(t, hasMessage, "plain reads carry no message")
}

func Test_Borrow_Lifecycle(t *testing.T) {
	rt, store := newTestRouter(t)
	store.AddBook("Clean Code", "Robert C. Martin")

	w, body := do(t, rt, http.MethodPost, "/books/1/borrow")
	require.Equal(t, http.StatusOK, w.Code)
	b := book(t, body)
	assert.Equal(t, false, b["available"])
	assert.NotNil(t, b["borrowed_at"])
	assert.Equal(t, "book borrowed", body["data"].(map[string]any)["message"])

	w, body = do(t, rt, http.MethodPost, "/books/1/borrow")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "book 1 is not available", body["error"])

	w, body = do(t, rt, http.MethodPost, "/books/1/return")
	require.Equal(t, http.StatusOK, w.Code)
	b = book(t, body)
	assert.Equal(t, true, b["available"])
	assert.Nil(t, b["borrowed_at"])
	assert.Equal(t, "book returned", body["data"].(map[string]any)["message"])

	w, body = do(t, rt, http.MethodPost, "/books/1/return")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "book 1 is not currently borrowed", body["error"])
}

func Test_Borrow_UnknownBook(t *testing.T) {
	rt, _ := newTestRouter(t)

	w, body := do(t, rt, http.MethodPost, "/books/5/borrow")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "book 5 not found", body["error"])
}

func Test_Return_UnknownBook(t *testing.T) {
	rt, _ := newTestRouter(t)

	w, body := do(t, rt, http.MethodPost, "/books/5/return")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "book 5 not found", body["error"])
}
