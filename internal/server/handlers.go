package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/faiqfarooq/codebase-rag/internal/apperr"
	"github.com/faiqfarooq/codebase-rag/internal/llm"
	"github.com/faiqfarooq/codebase-rag/internal/models"
	"github.com/faiqfarooq/codebase-rag/internal/source"
	"github.com/faiqfarooq/codebase-rag/pkg/utils"
)

// maxUploadSize caps uploaded archive bodies.
const maxUploadSize = 256 << 20 // 256 MiB

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req models.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.IngestRequests.WithLabelValues("directory", "error").Inc()
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.metrics.IngestRequests.WithLabelValues("directory", "error").Inc()
		s.respondAppError(w, err)
		return
	}
	s.logger.Debug("ingest request", zap.String("directory_path", req.DirectoryPath))

	files, chunks, err := s.ingestor.IngestDirectory(r.Context(), req.DirectoryPath)
	if err != nil {
		s.metrics.IngestRequests.WithLabelValues("directory", "error").Inc()
		s.logger.Error("ingestion failed", zap.Error(err))
		s.respondAppError(w, err)
		return
	}
	if s.watch != nil {
		if err := s.watch.SetRoot(req.DirectoryPath); err != nil {
			s.logger.Warn("cannot watch ingested directory", zap.Error(err))
		}
	}
	s.recordIngest("directory", files, chunks)
	s.respondJSON(w, http.StatusOK, models.IngestResponse{
		Message:        "Codebase ingested successfully",
		FilesProcessed: files,
		ChunksCreated:  chunks,
	})
}

func (s *Server) handleIngestUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.metrics.IngestRequests.WithLabelValues("upload", "error").Inc()
		s.respondError(w, http.StatusBadRequest, "multipart file field is required")
		return
	}
	defer file.Close()
	s.logger.Debug("upload request", zap.String("filename", header.Filename), zap.Int64("size", header.Size))

	tmp, err := os.CreateTemp("", "codebase-rag-*.zip")
	if err != nil {
		s.metrics.IngestRequests.WithLabelValues("upload", "error").Inc()
		s.logger.Error("cannot create temp file", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "cannot store uploaded archive")
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		s.metrics.IngestRequests.WithLabelValues("upload", "error").Inc()
		s.respondError(w, http.StatusBadRequest, "cannot read uploaded archive")
		return
	}
	_ = tmp.Close()

	dir, err := source.ExtractArchive(tmp.Name(), header.Filename)
	if err != nil {
		s.metrics.IngestRequests.WithLabelValues("upload", "error").Inc()
		s.respondAppError(w, err)
		return
	}
	defer os.RemoveAll(dir)

	files, chunks, err := s.ingestor.IngestDirectory(r.Context(), dir)
	if err != nil {
		s.metrics.IngestRequests.WithLabelValues("upload", "error").Inc()
		s.logger.Error("ingestion failed", zap.Error(err))
		s.respondAppError(w, err)
		return
	}
	s.recordIngest("upload", files, chunks)
	s.respondJSON(w, http.StatusOK, models.IngestResponse{
		Message:        "Archive ingested successfully",
		FilesProcessed: files,
		ChunksCreated:  chunks,
	})
}

func (s *Server) handleIngestRepo(w http.ResponseWriter, r *http.Request) {
	var req models.IngestRepoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.IngestRequests.WithLabelValues("repo", "error").Inc()
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.metrics.IngestRequests.WithLabelValues("repo", "error").Inc()
		s.respondAppError(w, err)
		return
	}
	s.logger.Debug("repo ingest request", zap.String("repo_url", req.RepoURL))

	dir, err := source.CloneRepo(r.Context(), req.RepoURL)
	if err != nil {
		s.metrics.IngestRequests.WithLabelValues("repo", "error").Inc()
		s.logger.Error("clone failed", zap.Error(err))
		s.respondAppError(w, err)
		return
	}
	defer os.RemoveAll(dir)

	files, chunks, err := s.ingestor.IngestDirectory(r.Context(), dir)
	if err != nil {
		s.metrics.IngestRequests.WithLabelValues("repo", "error").Inc()
		s.logger.Error("ingestion failed", zap.Error(err))
		s.respondAppError(w, err)
		return
	}
	s.recordIngest("repo", files, chunks)
	s.respondJSON(w, http.StatusOK, models.IngestResponse{
		Message:        "Repository ingested successfully",
		FilesProcessed: files,
		ChunksCreated:  chunks,
	})
}

// modelLabel maps a client-supplied model selector onto the closed backend
// set so metric label cardinality stays bounded.
func modelLabel(selector string) string {
	backend, err := llm.Resolve(selector)
	if err != nil {
		return "invalid"
	}
	return backend.String()
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.ChatRequests.WithLabelValues("invalid", "error").Inc()
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	model := modelLabel(req.Model)
	if err := req.Validate(); err != nil {
		s.metrics.ChatRequests.WithLabelValues(model, "error").Inc()
		s.respondAppError(w, err)
		return
	}
	s.logger.Debug("chat request", zap.String("query", utils.Truncate(req.Query, 200)), zap.String("model", req.Model))

	start := time.Now()
	resp, err := s.engine.Answer(r.Context(), req.Query, req.Model)
	s.metrics.ChatLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ChatRequests.WithLabelValues(model, "error").Inc()
		s.logger.Error("chat failed", zap.Error(err))
		s.respondAppError(w, err)
		return
	}
	s.metrics.ChatRequests.WithLabelValues(model, "ok").Inc()
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"chunks_indexed": s.collection.Count(),
	}
	if s.watch != nil {
		resp["watching"] = s.watch.Root()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) recordIngest(sourceKind string, files, chunks int) {
	s.metrics.IngestRequests.WithLabelValues(sourceKind, "ok").Inc()
	s.metrics.FilesProcessed.Add(float64(files))
	s.metrics.ChunksCreated.Add(float64(chunks))
	s.logger.Info("ingestion complete",
		zap.String("source", sourceKind),
		zap.Int("files_processed", files),
		zap.Int("chunks_created", chunks))
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondAppError maps a domain error to its HTTP status with the message in
// a {"detail": ...} envelope.
func (s *Server) respondAppError(w http.ResponseWriter, err error) {
	s.respondError(w, apperr.HTTPStatus(err), err.Error())
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"detail": message})
}
