package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/contentforge/wxrimport/internal/importer"
)

// handleHealth reports liveness and the number of running jobs.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"activeImports": s.service.ActiveCount(),
	})
}

// handleStartImport accepts a WXR export as a multipart upload (field
// "file") or a server-side path (form value "path"), spools it, and starts
// a background job. Responds 202 with the job snapshot.
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	opts, err := s.importOptions(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	job, err := s.service.Start(r.Context(), opts)
	if err != nil {
		if opts.RemoveFile {
			os.Remove(opts.FilePath)
		}
		switch {
		case errors.Is(err, importer.ErrTooManyImports):
			w.Header().Set("Retry-After", "10")
			s.respondError(w, r, err, http.StatusTooManyRequests)
		default:
			s.respondError(w, r, err, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusAccepted, job.Snapshot())
}

// handleGetImport returns the current snapshot of a job. Jobs from an
// earlier process come back from their persisted record.
func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	snap, err := s.service.Snapshot(r.Context(), id)
	if err != nil {
		s.respondJobError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleCancelImport requests cooperative cancellation. The job finishes
// its in-flight item first, so the response is 202, not 200.
func (s *Server) handleCancelImport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	snap, err := s.service.Cancel(r.Context(), id)
	if err != nil {
		s.respondJobError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, snap)
}

// jobID parses the jobID URL parameter, writing the error response on
// failure.
func (s *Server) jobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("invalid job id: %w", err), http.StatusBadRequest)
		return uuid.UUID{}, false
	}
	return id, true
}

func (s *Server) respondJobError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, importer.ErrJobNotFound) {
		status = http.StatusNotFound
	}
	s.respondError(w, r, err, status)
}

// importOptions parses job options from the request and spools the WXR
// payload to a local file.
func (s *Server) importOptions(r *http.Request) (importer.Options, error) {
	opts := importer.Options{
		DryRun:            boolValue(r, "dryRun"),
		SkipMedia:         boolValue(r, "skipMedia"),
		RebuildExcerpts:   boolValue(r, "rebuildExcerpts"),
		OverwriteMarkdown: boolValue(r, "overwriteMarkdown"),
	}
	if statuses := requestValue(r, "statuses"); statuses != "" {
		for _, st := range strings.Split(statuses, ",") {
			if st = strings.TrimSpace(st); st != "" {
				opts.AllowedStatuses = append(opts.AllowedStatuses, st)
			}
		}
	}

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return opts, fmt.Errorf("read upload: %w", err)
		}
		defer file.Close()

		spooled, err := s.spool(file)
		if err != nil {
			return opts, err
		}
		opts.FilePath = spooled
		opts.FileName = header.Filename
		opts.RemoveFile = true
		return opts, nil
	}

	// Server-side path mode, for exports already on disk.
	path := requestValue(r, "path")
	if path == "" {
		return opts, errors.New("provide a multipart \"file\" or a \"path\" value")
	}
	opts.FilePath = path
	opts.FileName = filepath.Base(path)
	return opts, nil
}

// spool copies an uploaded stream to the configured upload directory.
func (s *Server) spool(src io.Reader) (string, error) {
	dir := s.cfg.Import.UploadDir
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create upload dir: %w", err)
		}
	}

	f, err := os.CreateTemp(dir, "wxr-*.xml")
	if err != nil {
		return "", fmt.Errorf("spool upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("spool upload: %w", err)
	}
	return f.Name(), nil
}

// requestValue reads a value from the form body or the query string.
func requestValue(r *http.Request, key string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return r.URL.Query().Get(key)
}

func boolValue(r *http.Request, key string) bool {
	switch strings.ToLower(requestValue(r, key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
