// Package usecase orchestrates the interview flow: resume analysis, question
// generation, answer evaluation, and the final assessment.
package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/ai"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/ai/tokencount"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/observability"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

// codingRoleKeywords flags roles that get coding-challenge questions.
var codingRoleKeywords = []string{
	"developer", "engineer", "programmer", "software", "coder",
	"backend", "frontend", "full stack", "fullstack", "devops",
	"data scientist", "machine learning", "sde", "swe",
}

// Service implements the interview lifecycle over a session store and a
// completion client. One completion round trip per stage; a failed round trip
// leaves the session state unchanged.
type Service struct {
	store    domain.SessionStore
	llm      domain.CompletionClient
	detector domain.ContentDetector
	mix      QuestionMix
	budget   int
	log      *slog.Logger
}

// Options carries optional collaborators for the service.
type Options struct {
	// Detector classifies answer text; nil disables detection entirely.
	Detector domain.ContentDetector
	// Mix overrides the generated question counts; zero value means default.
	Mix QuestionMix
	// ResumeTokenBudget caps resume text before prompt construction.
	ResumeTokenBudget int
	Logger            *slog.Logger
}

// NewService wires the interview service.
func NewService(store domain.SessionStore, llm domain.CompletionClient, opts Options) *Service {
	mix := opts.Mix
	if mix.Total(true) == 0 {
		mix = DefaultQuestionMix()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		llm:      llm,
		detector: opts.Detector,
		mix:      mix,
		budget:   opts.ResumeTokenBudget,
		log:      logger,
	}
}

// AnalyzeResume infers a candidate profile from resume text and stores it on
// the session, creating the session if needed. Re-uploading starts the
// session over.
func (s *Service) AnalyzeResume(ctx domain.Context, sessionID, resumeText string) (domain.CandidateProfile, error) {
	text := strings.TrimSpace(resumeText)
	if text == "" {
		return domain.CandidateProfile{}, fmt.Errorf("%w: no text could be extracted from the resume", domain.ErrInvalidArgument)
	}
	text = tokencount.Truncate(text, s.budget)

	out, err := s.llm.Complete(ctx, SystemPrompt, profilePrompt(text))
	if err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=AnalyzeResume: %w", err)
	}

	var wire struct {
		Name             string          `json:"name"`
		Email            string          `json:"email"`
		Experience       string          `json:"experience"`
		KeySkills        json.RawMessage `json:"key_skills"`
		InferredPosition string          `json:"inferred_position"`
	}
	if err := ai.ExtractInto(out, &wire); err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=AnalyzeResume: %w: raw output: %s", err, out)
	}

	profile := domain.CandidateProfile{
		Name:             wire.Name,
		Email:            wire.Email,
		Experience:       wire.Experience,
		KeySkills:        normalizeSkills(wire.KeySkills),
		InferredPosition: wire.InferredPosition,
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		sess = domain.NewSession(sessionID)
	} else {
		sess.Reset()
	}
	sess.Profile = &profile
	if err := s.store.Upsert(ctx, sess); err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=AnalyzeResume: %w", err)
	}
	s.log.Info("resume analyzed",
		slog.String("session_id", sessionID),
		slog.String("inferred_position", profile.InferredPosition),
		slog.Int("key_skills", len(profile.KeySkills)))
	return profile, nil
}

// normalizeSkills accepts the model returning key_skills as an array or as a
// comma-separated string.
func normalizeSkills(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		out := []string{}
		for _, part := range strings.Split(one, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return []string{}
}

// SetupInterview generates the question set for the given role and moves the
// session into the questioning stage. Requires a prior resume analysis.
func (s *Service) SetupInterview(ctx domain.Context, sessionID, role string) ([]domain.Question, bool, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, false, fmt.Errorf("%w: position role is required", domain.ErrInvalidArgument)
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("op=SetupInterview: %w", err)
	}
	if sess.Profile == nil {
		return nil, false, fmt.Errorf("%w: no resume has been analyzed for this session", domain.ErrInvalidArgument)
	}

	codingRole := isCodingRole(role, sess.Profile.InferredPosition)
	out, err := s.llm.Complete(ctx, SystemPrompt, questionsPrompt(*sess.Profile, role, s.mix, codingRole))
	if err != nil {
		return nil, false, fmt.Errorf("op=SetupInterview: %w", err)
	}
	var wire struct {
		Questions []domain.Question `json:"questions"`
	}
	if err := ai.ExtractInto(out, &wire); err != nil {
		return nil, false, fmt.Errorf("op=SetupInterview: %w: raw output: %s", err, out)
	}
	if len(wire.Questions) == 0 {
		return nil, false, fmt.Errorf("%w: model returned no questions", domain.ErrSchemaInvalid)
	}
	ensureQuestionIDs(wire.Questions)

	now := time.Now().UTC()
	sess.Profile.Position = role
	sess.Questions = wire.Questions
	sess.Responses = nil
	sess.Assessment = nil
	sess.IsCodingRole = codingRole
	sess.StartedAt = &now
	sess.EndedAt = nil
	if err := s.store.Upsert(ctx, sess); err != nil {
		return nil, false, fmt.Errorf("op=SetupInterview: %w", err)
	}
	s.log.Info("interview set up",
		slog.String("session_id", sessionID),
		slog.String("role", role),
		slog.Bool("coding_role", codingRole),
		slog.Int("questions", len(wire.Questions)))
	return wire.Questions, codingRole, nil
}

func isCodingRole(role, inferredPosition string) bool {
	haystack := strings.ToLower(role + " " + inferredPosition)
	for _, kw := range codingRoleKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// ensureQuestionIDs backfills missing ids and renames duplicates so answers
// can always be keyed by question id.
func ensureQuestionIDs(questions []domain.Question) {
	seen := make(map[string]bool, len(questions))
	for i := range questions {
		id := strings.TrimSpace(questions[i].ID)
		if id == "" || seen[id] {
			id = fmt.Sprintf("q%d", i+1)
		}
		for seen[id] {
			id += "_dup"
		}
		questions[i].ID = id
		seen[id] = true
	}
}

// SubmitAnswerInput is one answer submission.
type SubmitAnswerInput struct {
	QuestionID       string
	AnswerText       string
	Code             string
	IsCodingQuestion bool
	Duration         string
}

// SubmitAnswer evaluates one answer and records it on the session, replacing
// any earlier answer to the same question. On evaluation failure nothing is
// recorded.
func (s *Service) SubmitAnswer(ctx domain.Context, sessionID string, in SubmitAnswerInput) (*domain.Evaluation, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("op=SubmitAnswer: %w", err)
	}
	if len(sess.Questions) == 0 {
		return nil, fmt.Errorf("%w: interview has not been set up for this session", domain.ErrInvalidArgument)
	}
	question, ok := sess.QuestionByID(in.QuestionID)
	if !ok {
		return nil, fmt.Errorf("%w: question %q", domain.ErrNotFound, in.QuestionID)
	}
	answer := strings.TrimSpace(in.AnswerText)
	code := strings.TrimSpace(in.Code)
	if answer == "" && code == "" {
		return nil, fmt.Errorf("%w: response text is required", domain.ErrInvalidArgument)
	}

	ev := &domain.Evaluation{}
	if in.IsCodingQuestion && code != "" {
		ev.CodeEvaluation = s.evaluateCode(ctx, question.Question, code)
	}

	evalText := answer
	if evalText == "" {
		evalText = code
	}
	out, err := s.llm.Complete(ctx, SystemPrompt, evaluationPrompt(question.Question, evalText))
	if err != nil {
		return nil, fmt.Errorf("op=SubmitAnswer: %w", err)
	}
	var wire struct {
		TechnicalScore     int    `json:"technicalScore"`
		CommunicationScore int    `json:"communicationScore"`
		RelevanceScore     int    `json:"relevanceScore"`
		Feedback           string `json:"feedback"`
	}
	if err := ai.ExtractInto(out, &wire); err != nil {
		return nil, fmt.Errorf("op=SubmitAnswer: %w: raw output: %s", err, out)
	}
	ev.TechnicalScore = clampScore(wire.TechnicalScore)
	ev.CommunicationScore = clampScore(wire.CommunicationScore)
	ev.RelevanceScore = clampScore(wire.RelevanceScore)
	ev.Feedback = wire.Feedback
	ev.Score = combinedScore(ev)

	if s.detector != nil && answer != "" {
		det, derr := s.detector.Detect(ctx, answer)
		if derr != nil {
			s.log.Warn("content detection failed",
				slog.String("session_id", sessionID), slog.Any("error", derr))
			ev.AIDetection = &domain.AIDetection{Confidence: "N/A", Error: derr.Error()}
		} else {
			applyAIPenalty(ev, det)
		}
	}

	recorded := answer
	if recorded == "" {
		recorded = code
	}
	sess.UpsertResponse(domain.Response{
		QuestionID: question.ID,
		Question:   question.Question,
		Tags:       question.Tags,
		Response:   recorded,
		Duration:   in.Duration,
		Evaluation: ev,
	})
	if err := s.store.Upsert(ctx, sess); err != nil {
		return nil, fmt.Errorf("op=SubmitAnswer: %w", err)
	}

	observability.AnswersEvaluatedTotal.Inc()
	observability.AnswerScoreHistogram.Observe(float64(ev.Score))
	s.log.Info("answer evaluated",
		slog.String("session_id", sessionID),
		slog.String("question_id", question.ID),
		slog.Int("score", ev.Score))
	return ev, nil
}

// evaluateCode scores a code submission. Failure degrades to a zeroed
// evaluation flagged with has_errors so the answer flow continues.
func (s *Service) evaluateCode(ctx domain.Context, question, code string) *domain.CodeEvaluation {
	out, err := s.llm.Complete(ctx, SystemPrompt, codeEvaluationPrompt(question, code))
	if err == nil {
		var ce domain.CodeEvaluation
		if err = ai.ExtractInto(out, &ce); err == nil {
			ce.Correctness = clampScore(ce.Correctness)
			ce.Logic = clampScore(ce.Logic)
			ce.Syntax = clampScore(ce.Syntax)
			ce.OverallScore = clampScore(ce.OverallScore)
			return &ce
		}
	}
	s.log.Warn("code evaluation failed", slog.Any("error", err))
	return &domain.CodeEvaluation{HasErrors: true, Feedback: "Code evaluation was unavailable for this submission."}
}

// Assessment produces the final report. Callable once at least half the
// questions (rounded up) are answered, or all of them. A failed completion
// round trip degrades to a locally computed report instead of failing.
func (s *Service) Assessment(ctx domain.Context, sessionID string) (*domain.Assessment, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("op=Assessment: %w", err)
	}
	if len(sess.Questions) == 0 {
		return nil, fmt.Errorf("%w: interview has not been set up for this session", domain.ErrInvalidArgument)
	}
	answered, total := len(sess.Responses), len(sess.Questions)
	if answered == 0 {
		return nil, fmt.Errorf("%w: no responses recorded", domain.ErrInvalidArgument)
	}
	if required := minRequiredResponses(total); answered < required && answered < total {
		return nil, fmt.Errorf("%w: answer at least %d of %d questions before requesting an assessment (answered %d)",
			domain.ErrInvalidArgument, required, total, answered)
	}

	now := time.Now().UTC()
	sess.EndedAt = &now
	durationLabel := totalInterviewDuration(sess.Responses)

	var assessment domain.Assessment
	out, err := s.llm.Complete(ctx, SystemPrompt, assessmentPrompt(*sess.Profile, responseSummaries(sess.Responses), durationLabel))
	if err == nil {
		err = ai.ExtractInto(out, &assessment)
	}
	if err != nil {
		s.log.Warn("assessment generation failed, using local fallback",
			slog.String("session_id", sessionID), slog.Any("error", err))
		assessment = fallbackAssessment(sess.Responses)
	}

	// Server-owned fields, regardless of what the model returned.
	assessment.OverallScore = clampScore(assessment.OverallScore)
	assessment.InterviewDuration = durationLabel
	assessment.DetailedQuestionAnalysis = questionAnalysis(sess.Responses)
	if assessment.KeyStrengths == nil {
		assessment.KeyStrengths = []string{}
	}
	if assessment.AreasForImprovement == nil {
		assessment.AreasForImprovement = []string{}
	}

	sess.Assessment = &assessment
	if err := s.store.Upsert(ctx, sess); err != nil {
		return nil, fmt.Errorf("op=Assessment: %w", err)
	}
	s.log.Info("assessment generated",
		slog.String("session_id", sessionID),
		slog.Int("overall_score", assessment.OverallScore),
		slog.String("recommendation", assessment.Recommendation))
	return &assessment, nil
}

func responseSummaries(responses []domain.Response) []string {
	out := make([]string, 0, len(responses))
	for i, r := range responses {
		var b strings.Builder
		fmt.Fprintf(&b, "Question %d (%s): %s\n", i+1, strings.Join(r.Tags, ", "), r.Question)
		fmt.Fprintf(&b, "Response: %s\n", r.Response)
		if r.Evaluation != nil {
			fmt.Fprintf(&b, "Evaluation: score %d/100 (technical %d, communication %d, relevance %d)\n",
				r.Evaluation.Score, r.Evaluation.TechnicalScore, r.Evaluation.CommunicationScore, r.Evaluation.RelevanceScore)
			fmt.Fprintf(&b, "Feedback: %s", r.Evaluation.Feedback)
		}
		out = append(out, b.String())
	}
	return out
}

// LogSecurityEvent appends a telemetry event to the session.
func (s *Service) LogSecurityEvent(ctx domain.Context, sessionID string, event domain.SecurityEvent) error {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("op=LogSecurityEvent: %w", err)
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	sess.SecurityEvents = append(sess.SecurityEvents, event)
	if err := s.store.Upsert(ctx, sess); err != nil {
		return fmt.Errorf("op=LogSecurityEvent: %w", err)
	}
	s.log.Info("security event logged",
		slog.String("session_id", sessionID), slog.String("type", event.Type))
	return nil
}

// Reset clears the session back to its empty state, keeping its id.
func (s *Service) Reset(ctx domain.Context, sessionID string) error {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("op=Reset: %w", err)
	}
	sess.Reset()
	if err := s.store.Upsert(ctx, sess); err != nil {
		return fmt.Errorf("op=Reset: %w", err)
	}
	return nil
}

// Session returns the raw session state; used by handlers that echo state.
func (s *Service) Session(ctx domain.Context, sessionID string) (domain.Session, error) {
	return s.store.Get(ctx, sessionID)
}
