package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vegasq/insight/dataset"
)

const parquetContentType = "application/vnd.apache.parquet"

type resultResponse struct {
	Result interface{} `json:"result"`
}

type fieldResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	s.writeJSON(w, status, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, resultResponse{Result: s.registry.List()})
}

// handleAddDataset imports the request body as a dataset. The body is a JSON
// array of rows, or a parquet file when sent with the parquet content type.
func (s *Server) handleAddDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	kind, err := dataset.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := dataset.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	rows, err := s.readRows(r, kind)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", errBadBody, err))
		return
	}
	if _, err := s.registry.Add(id, kind, rows); err != nil {
		s.writeError(w, r, err)
		return
	}

	infos := s.registry.List()
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.ID)
	}
	s.writeJSON(w, http.StatusOK, resultResponse{Result: ids})
}

func (s *Server) readRows(r *http.Request, kind dataset.Kind) ([]dataset.Row, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != parquetContentType {
		return dataset.DecodeJSONRows(kind, r.Body)
	}

	// Parquet needs random access, so spool the body to disk first.
	tmp, err := os.CreateTemp("", "insight-upload-*.parquet")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := io.Copy(tmp, r.Body); err != nil {
		return nil, err
	}
	return dataset.ReadParquetRows(kind, tmp.Name())
}

func (s *Server) handleRemoveDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.registry.Remove(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resultResponse{Result: id})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.engine.PerformQueryJSON(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Query-Id", result.ID)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	kind, err := dataset.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	fields := dataset.Schema(kind)
	out := make([]fieldResponse, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldResponse{Name: f.Name, Type: f.Type.String()})
	}
	s.writeJSON(w, http.StatusOK, resultResponse{Result: out})
}
