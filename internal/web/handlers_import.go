package web

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/inventory/internal/web/templates"
)

// multipartMemory is how much of an upload is buffered in memory before
// the rest spills to a temporary file.
const multipartMemory = 32 << 20

// importResponse is the JSON body of a successful import.
type importResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	ImportID string `json:"import_id"`
}

// handleImport loads a multipart CSV upload into the inventory.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	// Uploads may outlive the server-wide read and write timeouts.
	deadline := time.Now().Add(s.cfg.Upload.Timeout + s.cfg.Upload.MaxWaitTime)
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(deadline)
	_ = rc.SetWriteDeadline(deadline)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			respondError(w, r, err)
			return
		}
		respondError(w, r, errNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errNoFile)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		respondError(w, r, errNotCSV)
		return
	}

	if err := s.imports.Acquire(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	defer s.imports.Release()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	result, err := s.service.ImportCSV(ctx, file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.ImportSummary(result.Imported, result.Skipped, result.ID.String()).Render(r.Context(), w); err != nil {
			respondError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		Message:  importMessage(result.Imported),
		Imported: result.Imported,
		Skipped:  result.Skipped,
		ImportID: result.ID.String(),
	})
}
