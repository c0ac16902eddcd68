package web

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/inventory/internal/core"
)

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// queryParams flattens the query string, keeping the first value of
// each parameter.
func queryParams(r *http.Request) map[string]string {
	q := r.URL.Query()
	params := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

// clientIP returns the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func importMessage(n int) string {
	return fmt.Sprintf("Successfully imported %d items", n)
}

// schemaField describes one inventory attribute.
type schemaField struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Required bool   `json:"required_header"`
	Prefix   bool   `json:"prefix_search"`
	MinParam string `json:"min_param,omitempty"`
	MaxParam string `json:"max_param,omitempty"`
}

// handleSchema lists the inventory attributes in column order.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	fields := make([]schemaField, 0, len(core.Fields))
	for _, f := range core.Fields {
		fields = append(fields, schemaField{
			Name:     f.Name,
			Kind:     f.Kind.String(),
			Required: f.Required,
			Prefix:   f.Prefix,
			MinParam: f.MinParam,
			MaxParam: f.MaxParam,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"table":     core.TableName,
		"page_size": core.PageSize,
		"fields":    fields,
	})
}

// handleHealth reports liveness and import slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.imports.Status(),
	})
}
