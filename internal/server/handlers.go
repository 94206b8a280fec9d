// ABOUTME: HTTP handlers for document upload, chat, and health endpoints
// ABOUTME: Maps pipeline errors onto JSON responses with appropriate status codes
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harper/docchat/internal/extract"
	"github.com/harper/docchat/internal/models"
	"github.com/harper/docchat/internal/rag"
)

// maxUploadBytes bounds the multipart form size for document uploads.
const maxUploadBytes = 32 << 20

type uploadResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	ID        string   `json:"id"`
	Role      string   `json:"role"`
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources,omitempty"`
	Degraded  bool     `json:"degraded,omitempty"`
	Timestamp string   `json:"timestamp"`
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	// The stored name is always server-generated so client filenames
	// can never collide or escape the upload directory.
	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(s.config.UploadDir, id+ext)

	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		s.logger.Error("create upload dir failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	dst, err := os.Create(path)
	if err != nil {
		s.logger.Error("create upload file failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		s.logger.Error("write upload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	dst.Close()

	text, err := extract.Text(path)
	if err != nil {
		s.logger.Warn("text extraction failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.ingestor.Ingest(r.Context(), id, text)
	if err != nil {
		s.logger.Error("ingestion failed", zap.String("id", id), zap.Error(err))
		s.respondIngestError(w, err)
		return
	}
	s.logger.Info("document ingested",
		zap.String("id", id),
		zap.String("filename", header.Filename),
		zap.Int("chunks", result.ChunkCount))
	s.respondJSON(w, http.StatusCreated, uploadResponse{
		ID:       id,
		Filename: header.Filename,
		Chunks:   result.ChunkCount,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.answerer.Answer(r.Context(), req.Message)
	if err != nil {
		s.logger.Error("chat failed", zap.Error(err))
		s.respondChatError(w, err)
		return
	}
	turn := models.NewAssistantTurn(result.Answer, result.Sources)
	s.respondJSON(w, http.StatusOK, chatResponse{
		ID:        turn.TurnID,
		Role:      string(turn.Role),
		Answer:    turn.Content,
		Sources:   turn.Sources,
		Degraded:  result.Degraded,
		Timestamp: turn.Timestamp.Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rag.ErrEmptyInput):
		s.respondError(w, http.StatusBadRequest, "document has no extractable text")
	case errors.Is(err, rag.ErrEmbeddingUnavailable), errors.Is(err, rag.ErrStoreUnavailable):
		s.respondError(w, http.StatusBadGateway, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondChatError(w http.ResponseWriter, err error) {
	var genErr *rag.GenerationError
	switch {
	case errors.Is(err, rag.ErrInvalidQuestion):
		s.respondError(w, http.StatusBadRequest, "message must not be empty")
	case errors.Is(err, rag.ErrRetrieval), errors.As(err, &genErr):
		s.respondError(w, http.StatusBadGateway, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
