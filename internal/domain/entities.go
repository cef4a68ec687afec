// Package domain holds the interview entities, error taxonomy, and the ports
// implemented by adapters.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrUpstreamFailure = errors.New("upstream failure")
	ErrUpstreamTimeout = errors.New("upstream timeout")
	ErrSchemaInvalid   = errors.New("schema invalid")
	ErrInternal        = errors.New("internal error")
)

// CandidateProfile is inferred from the uploaded resume. Position is merged in
// later, at interview setup.
type CandidateProfile struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Experience       string   `json:"experience"`
	KeySkills        []string `json:"key_skills"`
	InferredPosition string   `json:"inferred_position"`
	Position         string   `json:"position,omitempty"`
}

// Question is one generated interview question. ID is unique within a session.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Tags     []string `json:"tags"`
}

// CodeEvaluation scores a code submission on four axes, each 0-100.
type CodeEvaluation struct {
	Correctness  int    `json:"correctness"`
	Logic        int    `json:"logic"`
	Syntax       int    `json:"syntax"`
	OverallScore int    `json:"overall_score"`
	Feedback     string `json:"feedback"`
	HasErrors    bool   `json:"has_errors"`
}

// AIDetection is the outcome of the external content classifier.
type AIDetection struct {
	IsAIGenerated bool    `json:"is_ai_generated"`
	AIPercentage  float64 `json:"ai_percentage"`
	Confidence    string  `json:"confidence"`
	Error         string  `json:"error,omitempty"`
}

// Evaluation is the scored result for one answer. Score is the combined score:
// the rounded mean of the three sub-scores, or the 70/30 code/explanation
// blend for coding questions, minus any AI-content penalty. Always in [0,100].
type Evaluation struct {
	TechnicalScore     int             `json:"technicalScore"`
	CommunicationScore int             `json:"communicationScore"`
	RelevanceScore     int             `json:"relevanceScore"`
	Score              int             `json:"score"`
	Feedback           string          `json:"feedback"`
	CodeEvaluation     *CodeEvaluation `json:"code_evaluation,omitempty"`
	CodeScore          int             `json:"code_score,omitempty"`
	ExplanationScore   int             `json:"explanation_score,omitempty"`
	AIDetection        *AIDetection    `json:"ai_detection,omitempty"`
	AIWarning          string          `json:"ai_warning,omitempty"`
}

// Response records a submitted answer with its evaluation.
// Responses are keyed logically by QuestionID: re-submission replaces.
type Response struct {
	QuestionID string      `json:"question_id"`
	Question   string      `json:"question"`
	Tags       []string    `json:"tags"`
	Response   string      `json:"response"`
	Duration   string      `json:"duration"`
	Evaluation *Evaluation `json:"evaluation"`
}

// DetailedScores breaks the assessment down by category.
type DetailedScores struct {
	TechnicalSkills int `json:"technicalSkills"`
	Communication   int `json:"communication"`
	SoftSkills      int `json:"softSkills"`
}

// QuestionAnalysis is the per-question breakdown in the final report. It is
// always filled server-side from recorded evaluations, never by the model.
type QuestionAnalysis struct {
	Question           string   `json:"question"`
	Response           string   `json:"response"`
	Tags               []string `json:"tags"`
	Score              int      `json:"score"`
	TechnicalScore     int      `json:"technicalScore"`
	CommunicationScore int      `json:"communicationScore"`
	RelevanceScore     int      `json:"relevanceScore"`
}

// Assessment is the aggregated final report.
type Assessment struct {
	OverallScore             int                `json:"overallScore"`
	Recommendation           string             `json:"recommendation"`
	InterviewDuration        string             `json:"interviewDuration"`
	DetailedScores           DetailedScores     `json:"detailedScores"`
	DetailedQuestionAnalysis []QuestionAnalysis `json:"detailedQuestionAnalysis"`
	KeyStrengths             []string           `json:"keyStrengths"`
	AreasForImprovement      []string           `json:"areasForImprovement"`
}

// SecurityEvent is a best-effort telemetry record from the exam UI.
type SecurityEvent struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	Timestamp string         `json:"timestamp"`
}

// Session is the server-side state for one candidate's interview attempt.
//
// Invariants:
//   - Questions, once set, define the only valid question ids for answers.
//   - Responses holds at most one entry per question id.
type Session struct {
	ID             string            `json:"id"`
	Profile        *CandidateProfile `json:"candidate_profile"`
	Questions      []Question        `json:"interview_questions"`
	Responses      []Response        `json:"interview_responses"`
	IsCodingRole   bool              `json:"is_coding_role"`
	Assessment     *Assessment       `json:"interview_assessment,omitempty"`
	SecurityEvents []SecurityEvent   `json:"security_events,omitempty"`
	StartedAt      *time.Time        `json:"interview_start_time,omitempty"`
	EndedAt        *time.Time        `json:"interview_end_time,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewSession returns a session with empty defaults.
func NewSession(id string) Session {
	return Session{ID: id, CreatedAt: time.Now().UTC()}
}

// QuestionByID returns the question with the given id, if present.
func (s *Session) QuestionByID(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// UpsertResponse replaces the response for the same question id or appends.
func (s *Session) UpsertResponse(r Response) {
	for i := range s.Responses {
		if s.Responses[i].QuestionID == r.QuestionID {
			s.Responses[i] = r
			return
		}
	}
	s.Responses = append(s.Responses, r)
}

// Reset restores the session fields to their empty defaults, keeping the id.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, CreatedAt: s.CreatedAt}
}

// SessionStore is the session lifecycle port. Implementations must be safe
// for concurrent use across sessions; same-session read-modify-write remains
// last-writer-wins.
type SessionStore interface {
	Get(ctx Context, id string) (Session, error)
	Upsert(ctx Context, s Session) error
	Delete(ctx Context, id string) error
}

// CompletionClient is the text-completion port: prompt in, raw text out.
// A single round trip per call; no retries.
type CompletionClient interface {
	Complete(ctx Context, systemPrompt, userPrompt string) (string, error)
}

// TextExtractor converts an uploaded document at path into plain text.
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// ContentDetector classifies text as human- or machine-written.
type ContentDetector interface {
	Detect(ctx Context, text string) (AIDetection, error)
}

// Context aliases context.Context so usecases read in domain terms.
type Context = context.Context
