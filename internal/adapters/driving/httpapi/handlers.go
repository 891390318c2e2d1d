package httpapi

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

// QueryRequest is the body of a query call.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

// QueryResponse is the answer to a query call.
type QueryResponse struct {
	Results []string `json:"results"`
	Count   int      `json:"count"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listTenants(c *gin.Context) {
	stats := s.ports.RAG.Stats()
	if stats == nil {
		stats = []domain.TenantStats{}
	}
	c.JSON(http.StatusOK, stats)
}

// uploadDocuments stores multipart "files" under random names, ingests them
// and reports per-file results under the uploaded file names.
func (s *Server) uploadDocuments(c *gin.Context) {
	tenant := domain.TenantID(c.Param("tenant"))

	form, err := c.MultipartForm()
	if err != nil {
		abort(c, http.StatusBadRequest, "expected a multipart form with files")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		abort(c, http.StatusBadRequest, "no files uploaded")
		return
	}

	dir, err := os.MkdirTemp(s.uploadDir, "bizrag-upload-*")
	if err != nil {
		httpLog.Error("creating upload dir: %v", err)
		abort(c, http.StatusInternalServerError, "could not store upload")
		return
	}
	defer os.RemoveAll(dir)

	names := make(map[string]string, len(files))
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		path := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
		if err := c.SaveUploadedFile(fh, path); err != nil {
			httpLog.Error("saving %s: %v", fh.Filename, err)
			abort(c, http.StatusInternalServerError, "could not store upload")
			return
		}
		names[path] = filepath.Base(fh.Filename)
		paths = append(paths, path)
	}

	report, err := s.ports.RAG.ProcessDocuments(c.Request.Context(), tenant, paths)
	if err != nil {
		fail(c, err)
		return
	}

	rename(report, names)
	c.JSON(http.StatusOK, report)
}

func (s *Server) query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "request body must be JSON with a query")
		return
	}

	results, err := s.ports.RAG.Query(c.Request.Context(), domain.TenantID(c.Param("tenant")), req.Query, req.TopK)
	if err != nil {
		fail(c, err)
		return
	}
	if results == nil {
		results = []string{}
	}

	c.JSON(http.StatusOK, QueryResponse{Results: results, Count: len(results)})
}

func (s *Server) insights(c *gin.Context) {
	if s.ports.Insights == nil {
		abort(c, http.StatusNotFound, "insights are not enabled")
		return
	}

	insight, err := s.ports.Insights.Insights(c.Request.Context(), domain.TenantID(c.Param("tenant")), c.Query("query"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, insight)
}

// rename swaps temporary upload paths for the client's file names.
func rename(report *domain.IngestReport, names map[string]string) {
	for i := range report.Ingested {
		if name, ok := names[report.Ingested[i].Path]; ok {
			report.Ingested[i].Path = name
		}
	}
	for i := range report.Failures {
		if name, ok := names[report.Failures[i].Path]; ok {
			report.Failures[i].Message = strings.ReplaceAll(report.Failures[i].Message, report.Failures[i].Path, name)
			report.Failures[i].Path = name
		}
	}
	for i, p := range report.Skipped {
		if name, ok := names[p]; ok {
			report.Skipped[i] = name
		}
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		httpLog.Warn("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	abort(c, status, err.Error())
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUpstreamTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
