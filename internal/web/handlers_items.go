package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/go-chi/chi/v5"
)

// exportFilenameLayout names export downloads, e.g.
// inventory_export_20240131_154502.csv.
const exportFilenameLayout = "inventory_export_20060102_150405.csv"

// handleSearch runs a paginated keyword search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page := parseIntParam(r, "page", 1)

	result, err := s.service.Search(r.Context(), q, page)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAdvancedSearch runs a multi-criteria search. Without any usable
// parameter no query is made and search_performed is false.
func (s *Server) handleAdvancedSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.AdvancedSearch(r.Context(), queryParams(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetItem returns one item by serial number.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.Get(r.Context(), chi.URLParam(r, "serialNo"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// saveResponse is returned by create and update.
type saveResponse struct {
	Message  string `json:"message"`
	SerialNo string `json:"serial_no,omitempty"`
}

// handleCreateItem creates an item, or upserts it when serial_no is set.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	in, err := readInput(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	key, err := s.service.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Message: "Item saved successfully", SerialNo: key})
}

// handleUpdateItem overwrites every attribute of an existing item.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	in, err := readInput(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	key, err := s.service.Update(r.Context(), chi.URLParam(r, "serialNo"), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Message: "Item saved successfully", SerialNo: key})
}

// handleDeleteItem removes an item by serial number.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "serialNo")
	if err := s.service.Delete(r.Context(), key); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Message: "Item deleted successfully", SerialNo: key})
}

// handleExport streams matching items as CSV. The body is rendered before
// any header is written so a storage failure can still become a 500.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	n, err := s.service.Export(r.Context(), &buf, r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := time.Now().Format(exportFilenameLayout)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("X-Export-Rows", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// readInput decodes a JSON object body into a core.Input.
func readInput(r *http.Request) (core.Input, error) {
	var in core.Input
	if err := decodeJSON(r, &in); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, errExpectedJSON
	}
	return in, nil
}
