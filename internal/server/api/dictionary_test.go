package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestDictionaryHandler_Workflow(t *testing.T) {
	s := newTestStore(t)
	a := newFakeApp()
	h := NewDictionaryHandler(s, a)

	// Create
	req := httptest.NewRequest(http.MethodPost, "/api/dictionary",
		bytes.NewBufferString(`{"spelling": " JJ ", "candidate": "你"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", rec.Code, http.StatusCreated)
	}
	var created entryResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Errorf("id %q is not a UUID: %v", created.ID, err)
	}
	if created.Spelling != "jj" {
		t.Errorf("spelling = %q, want jj", created.Spelling)
	}
	if a.Reloads() != 1 {
		t.Errorf("reloads = %d, want 1", a.Reloads())
	}

	// Second candidate gets the next rank
	req = httptest.NewRequest(http.MethodPost, "/api/dictionary",
		bytes.NewBufferString(`{"spelling": "jj", "candidate": "尼"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var second entryResponse
	json.NewDecoder(rec.Body).Decode(&second)
	if second.Rank != created.Rank+1 {
		t.Errorf("rank = %d, want %d", second.Rank, created.Rank+1)
	}

	// Duplicate
	req = httptest.NewRequest(http.MethodPost, "/api/dictionary",
		bytes.NewBufferString(`{"spelling": "jj", "candidate": "你"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want %d", rec.Code, http.StatusConflict)
	}

	// List by spelling
	req = httptest.NewRequest(http.MethodGet, "/api/dictionary?spelling=jj", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var listed listEntriesResponse
	json.NewDecoder(rec.Body).Decode(&listed)
	if len(listed.Entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(listed.Entries))
	}
	if listed.Entries[0].Candidate != "你" || listed.Entries[1].Candidate != "尼" {
		t.Errorf("entries = %+v, want 你 then 尼", listed.Entries)
	}

	// Get
	req = httptest.NewRequest(http.MethodGet, "/api/dictionary/"+created.ID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET status = %d, want %d", rec.Code, http.StatusOK)
	}

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/api/dictionary/"+created.ID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if a.Reloads() != 3 {
		t.Errorf("reloads = %d, want 3", a.Reloads())
	}

	// Gone
	req = httptest.NewRequest(http.MethodGet, "/api/dictionary/"+created.ID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDictionaryHandler_Errors(t *testing.T) {
	s := newTestStore(t)
	h := NewDictionaryHandler(s, nil)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{"missing candidate", http.MethodPost, "/api/dictionary", `{"spelling": "a"}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/dictionary", `not json`, http.StatusBadRequest},
		{"delete unknown", http.MethodDelete, "/api/dictionary/nope", "", http.StatusNotFound},
		{"get unknown", http.MethodGet, "/api/dictionary/nope", "", http.StatusNotFound},
		{"put collection", http.MethodPut, "/api/dictionary", "", http.StatusMethodNotAllowed},
		{"post item", http.MethodPost, "/api/dictionary/x", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestDictionaryHandler_EmptyList(t *testing.T) {
	h := NewDictionaryHandler(newTestStore(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dictionary", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "{\"entries\":[]}\n" {
		t.Errorf("body = %q, want an empty entries array", got)
	}
}
