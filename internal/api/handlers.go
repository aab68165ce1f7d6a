package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/jaspreetjk20/docrank/internal/document"
	"github.com/jaspreetjk20/docrank/internal/loader"
	"github.com/jaspreetjk20/docrank/internal/pipeline"
)

// handleAnalyze runs one batch synchronously. The request is multipart: a
// "request" part holding the batch JSON, plus one file part per document
// named in it. Identical batches are served from cache.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse multipart form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	reqJSON := r.FormValue("request")
	if reqJSON == "" {
		writeError(w, http.StatusBadRequest, "missing request part")
		return
	}
	req, err := pipeline.ParseRequest(bytes.NewReader([]byte(reqJSON)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	files, err := collectUploads(r, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := batchKey(reqJSON, files)
	if cached, ok := s.cache.Get(key); ok {
		s.log.Debug("analyze cache hit", "key", key)
		writeJSON(w, http.StatusOK, cached.(*document.RankedResult))
		return
	}

	open := func(_ context.Context, filename string) (io.ReadCloser, error) {
		data, ok := files[filename]
		if !ok {
			return nil, fmt.Errorf("no upload for %q", filename)
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	result, err := s.orch.Run(r.Context(), req, open)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoDocuments) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.log.Error("analyze failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	s.cache.SetDefault(key, result)
	writeJSON(w, http.StatusOK, result)
}

// collectUploads reads every uploaded file named in the request. A document
// listed in the request but not uploaded is an error here, not a skip: the
// caller controls both halves of the form.
func collectUploads(r *http.Request, req *pipeline.Request) (map[string][]byte, error) {
	files := make(map[string][]byte, len(req.Documents))
	wanted := make(map[string]bool, len(req.Documents))
	for _, d := range req.Documents {
		wanted[d.Filename] = true
	}

	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			if !wanted[fh.Filename] {
				continue
			}
			if !loader.IsSupportedExtension(fh.Filename) {
				return nil, fmt.Errorf("unsupported file type: %s", fh.Filename)
			}
			f, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
			}
			files[fh.Filename] = data
		}
	}

	for _, d := range req.Documents {
		if _, ok := files[d.Filename]; !ok {
			return nil, fmt.Errorf("document %q listed but not uploaded", d.Filename)
		}
	}
	return files, nil
}

// batchKey hashes the request JSON and file contents in filename order.
func batchKey(reqJSON string, files map[string][]byte) string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	h.Write([]byte(reqJSON))
	for _, name := range names {
		h.Write([]byte(name))
		h.Write(files[name])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
