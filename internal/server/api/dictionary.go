package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/headtype/internal/store"
)

// DictionaryReloader reloads the in-memory dictionary after an edit.
type DictionaryReloader interface {
	ReloadDictionary() error
}

// DictionaryHandler handles HTTP requests for dictionary entries.
type DictionaryHandler struct {
	store    *store.Store
	reloader DictionaryReloader
}

// NewDictionaryHandler creates a new DictionaryHandler. reloader may be nil.
func NewDictionaryHandler(s *store.Store, reloader DictionaryReloader) *DictionaryHandler {
	return &DictionaryHandler{store: s, reloader: reloader}
}

type createEntryRequest struct {
	Spelling  string `json:"spelling"`
	Candidate string `json:"candidate"`
}

type entryResponse struct {
	ID        string `json:"id"`
	Spelling  string `json:"spelling"`
	Candidate string `json:"candidate"`
	Rank      int    `json:"rank"`
	CreatedAt string `json:"created_at"`
}

type listEntriesResponse struct {
	Entries []entryResponse `json:"entries"`
}

func toEntryResponse(e *store.Entry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		Spelling:  e.Spelling,
		Candidate: e.Candidate,
		Rank:      e.Rank,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/dictionary or /api/dictionary/{id}
func (h *DictionaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/dictionary")
	id = strings.TrimPrefix(id, "/")

	if id == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodDelete:
		h.delete(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/dictionary, optionally filtered by ?spelling=.
func (h *DictionaryHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		entries []*store.Entry
		err     error
	)
	if spelling := r.URL.Query().Get("spelling"); spelling != "" {
		entries, err = h.store.Dictionary().ListBySpelling(spelling)
	} else {
		entries, err = h.store.Dictionary().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list dictionary")
		return
	}

	response := listEntriesResponse{Entries: make([]entryResponse, 0, len(entries))}
	for _, e := range entries {
		response.Entries = append(response.Entries, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/dictionary.
func (h *DictionaryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Spelling = strings.ToLower(strings.TrimSpace(req.Spelling))
	req.Candidate = strings.TrimSpace(req.Candidate)
	if req.Spelling == "" || req.Candidate == "" {
		writeError(w, http.StatusBadRequest, "spelling and candidate are required")
		return
	}

	entry := &store.Entry{
		ID:        uuid.New().String(),
		Spelling:  req.Spelling,
		Candidate: req.Candidate,
	}
	if err := h.store.Dictionary().Create(entry); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Entry already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	h.reload()
	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

// get handles GET /api/dictionary/{id}.
func (h *DictionaryHandler) get(w http.ResponseWriter, id string) {
	entry, err := h.store.Dictionary().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get entry")
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// delete handles DELETE /api/dictionary/{id}.
func (h *DictionaryHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Dictionary().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	h.reload()
	w.WriteHeader(http.StatusNoContent)
}

func (h *DictionaryHandler) reload() {
	if h.reloader == nil {
		return
	}
	if err := h.reloader.ReloadDictionary(); err != nil {
		log.Printf("Failed to reload dictionary: %v", err)
	}
}
