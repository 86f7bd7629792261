package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/mariana/devlink-assistant/internal/db"
	"github.com/mariana/devlink-assistant/internal/postings"
)

// PostingStore is the subset of the database used by posting endpoints.
type PostingStore interface {
	SaveJobPosting(ctx context.Context, url, title, company, description string) (*db.JobPosting, error)
	GetJobPostingByURL(ctx context.Context, url string) (*db.JobPosting, error)
	ListJobPostings(ctx context.Context, company string, limit int) ([]db.JobPosting, error)
}

// postingIngestStore adapts PostingStore to the ingester's store interface.
type postingIngestStore struct {
	store PostingStore
}

func (s postingIngestStore) SaveJobPosting(ctx context.Context, p *postings.Posting) error {
	_, err := s.store.SaveJobPosting(ctx, p.URL, p.Title, p.Company, p.Description)
	return err
}

// PostingHandler serves job posting ingestion and lookup endpoints.
type PostingHandler struct {
	ingester *postings.Ingester
	store    PostingStore
	log      zerolog.Logger
}

// NewPostingHandler creates a handler ingesting through the given fetcher.
func NewPostingHandler(fetcher *postings.Fetcher, store PostingStore, log zerolog.Logger) *PostingHandler {
	return &PostingHandler{
		ingester: postings.NewIngester(fetcher, postingIngestStore{store: store}, log),
		store:    store,
		log:      log,
	}
}

// Ingest fetches one posting URL, extracts its fields and stores the result.
func (h *PostingHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if _, err := middlewareUserID(w, r); err != nil {
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		http.Error(w, "URL is required", http.StatusBadRequest)
		return
	}

	posting, err := h.ingester.IngestOne(r.Context(), req.URL)
	if err != nil {
		h.log.Warn().Err(err).Str("url", req.URL).Msg("posting ingest failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusCreated, posting)
}

// List returns stored postings, optionally filtered by company.
func (h *PostingHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := middlewareUserID(w, r); err != nil {
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	items, err := h.store.ListJobPostings(r.Context(), r.URL.Query().Get("company"), limit)
	if err != nil {
		http.Error(w, "Failed to list postings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"postings": items})
}

// GetByURL returns one stored posting looked up by its source URL.
func (h *PostingHandler) GetByURL(w http.ResponseWriter, r *http.Request) {
	if _, err := middlewareUserID(w, r); err != nil {
		return
	}

	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	posting, err := h.store.GetJobPostingByURL(r.Context(), url)
	if err != nil {
		http.Error(w, "Failed to load posting", http.StatusInternalServerError)
		return
	}
	if posting == nil {
		http.Error(w, "Posting not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, posting)
}
