// Package chi implements the HTTP API on the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	chatuc "github.com/kailas-cloud/docsearch/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/docsearch/internal/usecase/ingest"
	libraryuc "github.com/kailas-cloud/docsearch/internal/usecase/library"
	queryuc "github.com/kailas-cloud/docsearch/internal/usecase/query"
)

// maxUploadBytes caps the size of an uploaded PDF.
const maxUploadBytes = 50 << 20

// Error codes returned in error response bodies.
const (
	codeBadRequest              = "bad_request"
	codeNotPDF                  = "not_pdf"
	codeEmptyDocument           = "empty_document"
	codeNotFound                = "not_found"
	codeEmbeddingProviderError  = "embedding_provider_error"
	codeGenerationProviderError = "generation_provider_error"
	codeInternalError           = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server exposes the document QA service over HTTP.
type Server struct {
	ingest        *ingestuc.Service
	query         *queryuc.Service
	library       *libraryuc.Service
	chats         *chatuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	query *queryuc.Service,
	library *libraryuc.Service,
	chats *chatuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:  ingest,
		query:   query,
		library: library,
		chats:   chats,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotPDF, http.StatusBadRequest, codeNotPDF),
		sentinelHandler(domain.ErrEmptyDocument, http.StatusBadRequest, codeEmptyDocument),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, codeGenerationProviderError),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/upload", s.Upload)
	r.Post("/query", s.Query)
	r.Get("/history/{chatID}", s.GetHistory)
	r.Get("/all_chat_ids", s.ListChatIDs)
	r.Delete("/history/{chatID}", s.ClearHistory)
	r.Get("/documents", s.ListDocuments)
	r.Delete("/documents/{fileName}", s.DeleteDocument)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Upload handles POST /upload.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Missing file in multipart form: "+err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}

	pages, err := s.ingest.Upload(r.Context(), data, header.Filename)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("File %q uploaded and indexed (%d pages)", header.Filename, pages),
	})
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query  string `json:"query"`
		ChatID string `json:"chat_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query is required")
		return
	}
	if req.ChatID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "chat_id is required")
		return
	}

	answer, err := s.query.Answer(r.Context(), req.Query, req.ChatID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// GetHistory handles GET /history/{chatID}.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	turns, err := s.chats.History(chatID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if turns == nil {
		turns = []domain.Turn{}
	}

	writeJSON(w, http.StatusOK, map[string][]domain.Turn{"history": turns})
}

// ListChatIDs handles GET /all_chat_ids.
func (s *Server) ListChatIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.chats.ListIDs()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"chat_ids": ids})
}

// ClearHistory handles DELETE /history/{chatID}.
func (s *Server) ClearHistory(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	existed, err := s.chats.Clear(chatID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	msg := fmt.Sprintf("History for chat %q cleared", chatID)
	if !existed {
		msg = fmt.Sprintf("No history found for chat %q", chatID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	names := s.library.List()
	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"file_names": names})
}

// DeleteDocument handles DELETE /documents/{fileName}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	fileName := chi.URLParam(r, "fileName")

	removed, err := s.library.Delete(fileName)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Deleted %d passages of %q", removed, fileName),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotPDF,
		domain.ErrEmptyDocument,
		domain.ErrNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
