package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/config"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/usecase"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/pkg/textx"
)

// sessionHeader carries the candidate's session id on every request.
const sessionHeader = "X-User-Session-Id"

const invalidSessionMsg = "Invalid or missing session ID"

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Interviews *usecase.Service
	Extractor  domain.TextExtractor
	StoreCheck func(ctx context.Context) error
}

// NewServer constructs the HTTP server with all handlers wired.
func NewServer(cfg config.Config, interviews *usecase.Service, extractor domain.TextExtractor, storeCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Interviews: interviews, Extractor: extractor, StoreCheck: storeCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// allowedExt enforces the upload allowlist: .pdf and .txt.
func allowedExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".txt")
}

// allowedMIMEFor cross-checks sniffed content against the filename. Text
// detectors misclassify rich resumes often enough that any text/* passes for
// .txt uploads.
func allowedMIMEFor(m, filename string) bool {
	m = strings.ToLower(m)
	if strings.HasSuffix(strings.ToLower(filename), ".txt") && strings.HasPrefix(m, "text/") {
		return true
	}
	return strings.HasPrefix(m, "text/plain") || m == "application/pdf"
}

// extractUploadedText turns an upload into plain resume text. PDFs stream
// through a temp file into the extractor; .txt content is sanitized directly.
func extractUploadedText(ctx context.Context, extractor domain.TextExtractor, h *multipart.FileHeader, data []byte) (string, error) {
	if strings.ToLower(filepath.Ext(h.Filename)) == ".pdf" {
		if extractor == nil {
			return "", fmt.Errorf("%w: pdf uploads require an extractor", domain.ErrInvalidArgument)
		}
		tmp, err := os.CreateTemp("", "resume-*.pdf")
		if err != nil {
			return "", fmt.Errorf("%w: temp file: %v", domain.ErrInternal, err)
		}
		defer func() { _ = tmp.Close(); _ = os.Remove(tmp.Name()) }()
		if _, err := tmp.Write(data); err != nil {
			return "", fmt.Errorf("%w: temp write: %v", domain.ErrInternal, err)
		}
		return extractor.ExtractPath(ctx, h.Filename, tmp.Name())
	}
	return textx.SanitizeText(string(data)), nil
}

func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		writeErrorMsg(w, http.StatusBadRequest, invalidSessionMsg)
		return "", false
	}
	if _, err := s.Interviews.Session(r.Context(), id); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, invalidSessionMsg)
		return "", false
	}
	return id, true
}

// UploadResumeHandler accepts a multipart resume upload, extracts its text,
// and runs profile analysis. A missing session header starts a new session.
func (s *Server) UploadResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(sessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeErrorMsg(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("Resume exceeds the %dMB upload limit", s.Cfg.MaxUploadMB))
				return
			}
			writeErrorMsg(w, http.StatusBadRequest, "No resume file provided")
			return
		}
		file, header, err := r.FormFile("resume")
		if err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "No resume file provided")
			return
		}
		defer func() { _ = file.Close() }()
		if header.Filename == "" {
			writeErrorMsg(w, http.StatusBadRequest, "No selected file")
			return
		}
		if !allowedExt(header.Filename) {
			writeErrorMsg(w, http.StatusUnsupportedMediaType,
				"Unsupported file type. Please upload a PDF or plain-text resume.")
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidArgument, err))
			return
		}
		if mt := mimetype.Detect(data); !allowedMIMEFor(mt.String(), header.Filename) {
			writeErrorMsg(w, http.StatusUnsupportedMediaType,
				fmt.Sprintf("Unsupported file content (%s). Please upload a PDF or plain-text resume.", mt.String()))
			return
		}

		text, err := extractUploadedText(r.Context(), s.Extractor, header, data)
		if err != nil {
			writeError(w, err)
			return
		}
		profile, err := s.Interviews.AnalyzeResume(r.Context(), sessionID, text)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set(sessionHeader, sessionID)
		writeJSON(w, http.StatusOK, map[string]any{
			"message":           "Resume processed successfully",
			"candidate_profile": profile,
			"session_id":        sessionID,
		})
	}
}

// SetupInterviewHandler generates the question set for the requested role.
func (s *Server) SetupInterviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req struct {
			PositionRole string `json:"position_role" validate:"required"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "Position role and candidate profile are required")
			return
		}
		questions, codingRole, err := s.Interviews.SetupInterview(r.Context(), sessionID, req.PositionRole)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":        "Interview questions generated",
			"questions":      questions,
			"is_coding_role": codingRole,
		})
	}
}

// SubmitAnswerHandler evaluates and records one answer.
func (s *Server) SubmitAnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req struct {
			QuestionID       string `json:"question_id" validate:"required"`
			ResponseText     string `json:"response_text"`
			CodeSubmission   string `json:"code_submission"`
			IsCodingQuestion bool   `json:"is_coding_question"`
			Duration         string `json:"duration"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "Question ID and response text are required")
			return
		}
		ev, err := s.Interviews.SubmitAnswer(r.Context(), sessionID, usecase.SubmitAnswerInput{
			QuestionID:       req.QuestionID,
			AnswerText:       req.ResponseText,
			Code:             req.CodeSubmission,
			IsCodingQuestion: req.IsCodingQuestion,
			Duration:         req.Duration,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		msg := "Answer submitted and evaluated"
		if ev.AIDetection != nil && ev.AIDetection.IsAIGenerated {
			msg += fmt.Sprintf(" (AI content detected: %.1f%%)", ev.AIDetection.AIPercentage)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":      msg,
			"evaluation":   ev,
			"ai_detection": ev.AIDetection,
		})
	}
}

// GetAssessmentHandler produces the final report once enough answers exist.
func (s *Server) GetAssessmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		assessment, err := s.Interviews.Assessment(r.Context(), sessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":    "Assessment generated",
			"assessment": assessment,
		})
	}
}

// LogSecurityHandler records exam-integrity telemetry. Best effort: an
// unknown session still gets a 200 so the UI never surfaces errors for it.
func (s *Server) LogSecurityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req struct {
			EventType string         `json:"event_type"`
			Data      map[string]any `json:"data"`
			Timestamp string         `json:"timestamp"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.EventType == "" {
			req.EventType = "unknown"
		}
		if sessionID := r.Header.Get(sessionHeader); sessionID != "" {
			err := s.Interviews.LogSecurityEvent(r.Context(), sessionID, domain.SecurityEvent{
				Type:      req.EventType,
				Data:      req.Data,
				Timestamp: req.Timestamp,
			})
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				writeError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Security event logged"})
	}
}

// ResetSessionHandler clears the session so the candidate can start over.
func (s *Server) ResetSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		if err := s.Interviews.Reset(r.Context(), sessionID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Session reset"})
	}
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler reports readiness, including the session store when it has a
// health check.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.StoreCheck != nil {
			if err := s.StoreCheck(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable", "store": err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
