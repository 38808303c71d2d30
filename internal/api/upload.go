package api

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/lexhound/statute-analyzer/internal/storage"
)

const maxUploadBytes = 10 << 20

// UploadResponse describes a stored document.
type UploadResponse struct {
	ID         string `json:"id"`
	ArenaID    int    `json:"arena_id"`
	ArenaIndex int    `json:"arena_index"`
	Filename   string `json:"filename"`
	WordCount  int    `json:"word_count"`
}

// handleUpload accepts a multipart upload, extracts its text, adds it
// to the cross-reference arena, and persists it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		respondError(w, http.StatusBadRequest, "document file is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	text, err := s.extractor.Extract(r.Context(), file, mimeType)
	if err != nil {
		// Collaborator failure: surfaced to the caller, never retried.
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.analysisMu.Lock()
	arenaDoc := s.checker.AddDocument(header.Filename, text)
	arenaIndex := len(s.checker.Documents()) - 1
	s.analysisMu.Unlock()

	hash := sha256.Sum256([]byte(text))
	document := &storage.Document{
		Filename:    header.Filename,
		Content:     text,
		ContentHash: hex.EncodeToString(hash[:]),
		ArenaIndex:  arenaIndex,
	}
	if err := s.documentRepo.Create(r.Context(), document); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save document")
		return
	}

	respondJSON(w, http.StatusCreated, UploadResponse{
		ID:         document.ID.String(),
		ArenaID:    arenaDoc.ID,
		ArenaIndex: arenaIndex,
		Filename:   header.Filename,
		WordCount:  len(strings.Fields(text)),
	})
}

// handleListDocuments lists the arena in insertion order.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.checker.Documents())
}
