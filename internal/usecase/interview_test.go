package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/ai/stub"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/session/memory"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/usecase"
)

type funcClient struct {
	fn func(system, user string) (string, error)
}

func (c funcClient) Complete(_ domain.Context, system, user string) (string, error) {
	return c.fn(system, user)
}

type fixedDetector struct {
	result domain.AIDetection
	err    error
}

func (d fixedDetector) Detect(_ domain.Context, _ string) (domain.AIDetection, error) {
	return d.result, d.err
}

func newService(t *testing.T, opts usecase.Options) (*usecase.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return usecase.NewService(store, stub.New(), opts), store
}

func TestAnalyzeResume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newService(t, usecase.Options{})

	profile, err := svc.AnalyzeResume(ctx, "s1", "Jane Doe, backend engineer, 5 years of Go.")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "Backend Engineer", profile.InferredPosition)
	assert.NotEmpty(t, profile.KeySkills)

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, "Jane Doe", sess.Profile.Name)
}

func TestAnalyzeResume_EmptyText(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, usecase.Options{})
	_, err := svc.AnalyzeResume(context.Background(), "s1", "   \n  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestAnalyzeResume_ReuploadResetsSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newService(t, usecase.Options{})

	_, err := svc.AnalyzeResume(ctx, "s1", "resume one")
	require.NoError(t, err)
	_, _, err = svc.SetupInterview(ctx, "s1", "Software Engineer")
	require.NoError(t, err)

	_, err = svc.AnalyzeResume(ctx, "s1", "resume two")
	require.NoError(t, err)

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, sess.Questions)
	assert.Nil(t, sess.StartedAt)
}

func TestAnalyzeResume_SkillsAsCommaString(t *testing.T) {
	t.Parallel()
	client := funcClient{fn: func(_, _ string) (string, error) {
		return `{"name":"A","email":"a@b.c","experience":"2 years","key_skills":"Go, SQL, Docker","inferred_position":"Developer"}`, nil
	}}
	svc := usecase.NewService(memory.New(), client, usecase.Options{})
	profile, err := svc.AnalyzeResume(context.Background(), "s1", "some resume")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, profile.KeySkills)
}

func TestSetupInterview_RequiresProfile(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, usecase.Options{})
	_, _, err := svc.SetupInterview(context.Background(), "missing", "Engineer")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSetupInterview_CodingRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newService(t, usecase.Options{})

	_, err := svc.AnalyzeResume(ctx, "s1", "resume text")
	require.NoError(t, err)

	questions, codingRole, err := svc.SetupInterview(ctx, "s1", "Software Engineer")
	require.NoError(t, err)
	assert.True(t, codingRole)
	require.Len(t, questions, 5)

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, sess.IsCodingRole)
	assert.NotNil(t, sess.StartedAt)
	assert.Equal(t, "Software Engineer", sess.Profile.Position)
}

func TestSetupInterview_NonCodingRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client := funcClient{fn: func(_, user string) (string, error) {
		if strings.Contains(user, "Resume Text:") {
			return `{"name":"A","email":"","experience":"","key_skills":[],"inferred_position":"Recruiter"}`, nil
		}
		return `{"questions":[{"id":"q1","question":"Tell me about yourself.","tags":["soft skills"]}]}`, nil
	}}
	svc := usecase.NewService(memory.New(), client, usecase.Options{})

	_, err := svc.AnalyzeResume(ctx, "s1", "resume")
	require.NoError(t, err)
	_, codingRole, err := svc.SetupInterview(ctx, "s1", "HR Manager")
	require.NoError(t, err)
	assert.False(t, codingRole)
}

func TestSetupInterview_FailedRecoveryLeavesSessionUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calls := 0
	client := funcClient{fn: func(_, _ string) (string, error) {
		calls++
		if calls == 1 {
			return `{"name":"A","email":"","experience":"","key_skills":[],"inferred_position":"Engineer"}`, nil
		}
		return "I cannot help with that.", nil
	}}
	store := memory.New()
	svc := usecase.NewService(store, client, usecase.Options{})

	_, err := svc.AnalyzeResume(ctx, "s1", "resume")
	require.NoError(t, err)

	_, _, err = svc.SetupInterview(ctx, "s1", "Engineer")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaInvalid))

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, sess.Questions)
	assert.Nil(t, sess.StartedAt)
}

func setupInterview(t *testing.T, svc *usecase.Service) []domain.Question {
	t.Helper()
	ctx := context.Background()
	_, err := svc.AnalyzeResume(ctx, "s1", "resume text")
	require.NoError(t, err)
	questions, _, err := svc.SetupInterview(ctx, "s1", "Software Engineer")
	require.NoError(t, err)
	return questions
}

func TestSubmitAnswer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newService(t, usecase.Options{})
	questions := setupInterview(t, svc)

	ev, err := svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{
		QuestionID: questions[0].ID,
		AnswerText: "REST is an architectural style built on HTTP verbs and resources.",
		Duration:   "01:30",
	})
	require.NoError(t, err)
	assert.Equal(t, 80, ev.Score)
	assert.Equal(t, 78, ev.TechnicalScore)
	assert.Nil(t, ev.CodeEvaluation)

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, sess.Responses, 1)
	assert.Equal(t, "01:30", sess.Responses[0].Duration)
}

func TestSubmitAnswer_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t, usecase.Options{})

	// Before setup there are no questions.
	_, err := svc.AnalyzeResume(ctx, "s1", "resume")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{QuestionID: "q1", AnswerText: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	questions := setupInterview(t, svc)

	_, err = svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{QuestionID: "ghost", AnswerText: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{QuestionID: questions[0].ID, AnswerText: "  "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestSubmitAnswer_ResubmissionReplaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newService(t, usecase.Options{})
	questions := setupInterview(t, svc)

	for _, text := range []string{"first answer", "second answer"} {
		_, err := svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{
			QuestionID: questions[0].ID, AnswerText: text,
		})
		require.NoError(t, err)
	}

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, sess.Responses, 1)
	assert.Equal(t, "second answer", sess.Responses[0].Response)
}

func TestSubmitAnswer_CodingBlend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t, usecase.Options{})
	questions := setupInterview(t, svc)

	ev, err := svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{
		QuestionID:       questions[len(questions)-1].ID,
		AnswerText:       "Reverses by swapping runes from both ends.",
		Code:             "func reverse(s string) string { /* ... */ return s }",
		IsCodingQuestion: true,
	})
	require.NoError(t, err)
	require.NotNil(t, ev.CodeEvaluation)
	assert.Equal(t, 90, ev.CodeScore)
	assert.Equal(t, 80, ev.ExplanationScore)
	// 0.7*90 + 0.3*80
	assert.Equal(t, 87, ev.Score)
}

func TestSubmitAnswer_AIPenalty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()
	svc := usecase.NewService(store, stub.New(), usecase.Options{
		Detector: fixedDetector{result: domain.AIDetection{
			IsAIGenerated: true, AIPercentage: 80, Confidence: "High",
		}},
	})
	questions := setupInterview(t, svc)

	ev, err := svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{
		QuestionID: questions[0].ID,
		AnswerText: "A fluent, suspiciously polished answer.",
	})
	require.NoError(t, err)
	// Combined 80 minus round(80 * 0.5).
	assert.Equal(t, 40, ev.Score)
	assert.NotEmpty(t, ev.AIWarning)
	require.NotNil(t, ev.AIDetection)
	assert.True(t, ev.AIDetection.IsAIGenerated)
}

func TestSubmitAnswer_DetectorFailureDoesNotPenalize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := usecase.NewService(memory.New(), stub.New(), usecase.Options{
		Detector: fixedDetector{err: errors.New("classifier down")},
	})
	questions := setupInterview(t, svc)

	ev, err := svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{
		QuestionID: questions[0].ID,
		AnswerText: "A normal answer.",
	})
	require.NoError(t, err)
	assert.Equal(t, 80, ev.Score)
	assert.Empty(t, ev.AIWarning)
	require.NotNil(t, ev.AIDetection)
	assert.NotEmpty(t, ev.AIDetection.Error)
}

func TestSubmitAnswer_RecoveryFailureRecordsNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calls := 0
	client := funcClient{fn: func(_, user string) (string, error) {
		calls++
		switch calls {
		case 1:
			return `{"name":"A","email":"","experience":"","key_skills":[],"inferred_position":"Engineer"}`, nil
		case 2:
			return `{"questions":[{"id":"q1","question":"Q?","tags":[]}]}`, nil
		default:
			return "not json at all", nil
		}
	}}
	store := memory.New()
	svc := usecase.NewService(store, client, usecase.Options{})

	_, err := svc.AnalyzeResume(ctx, "s1", "resume")
	require.NoError(t, err)
	_, _, err = svc.SetupInterview(ctx, "s1", "Engineer")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{QuestionID: "q1", AnswerText: "answer"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaInvalid))
	assert.Contains(t, err.Error(), "not json at all")

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, sess.Responses)
}

func TestAssessment_Gating(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t, usecase.Options{})
	questions := setupInterview(t, svc) // 5 questions, gate at 3

	_, err := svc.Assessment(ctx, "s1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	for i := 0; i < 2; i++ {
		_, err := svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{
			QuestionID: questions[i].ID, AnswerText: "a reasonable answer",
		})
		require.NoError(t, err)
	}
	_, err = svc.Assessment(ctx, "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 of 5")

	_, err = svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{
		QuestionID: questions[2].ID, AnswerText: "a reasonable answer",
	})
	require.NoError(t, err)

	a, err := svc.Assessment(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 80, a.OverallScore)
	assert.Len(t, a.DetailedQuestionAnalysis, 3)
}

func TestAssessment_ServerOwnedFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newService(t, usecase.Options{})
	questions := setupInterview(t, svc)

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitAnswer(ctx, "s1", usecase.SubmitAnswerInput{
			QuestionID: questions[i].ID, AnswerText: "answer", Duration: "01:00",
		})
		require.NoError(t, err)
	}

	a, err := svc.Assessment(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "3m 0s", a.InterviewDuration)
	require.Len(t, a.DetailedQuestionAnalysis, 3)
	assert.Equal(t, 80, a.DetailedQuestionAnalysis[0].Score)

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, sess.Assessment)
	assert.NotNil(t, sess.EndedAt)
}

func TestAssessment_FallbackOnCompletionFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()

	sess := domain.NewSession("s1")
	sess.Profile = &domain.CandidateProfile{Name: "A"}
	sess.Questions = []domain.Question{{ID: "q1", Question: "Q?"}, {ID: "q2", Question: "Q2?"}}
	sess.Responses = []domain.Response{
		{QuestionID: "q1", Question: "Q?", Response: "ans", Duration: "01:00",
			Evaluation: &domain.Evaluation{Score: 80, TechnicalScore: 80, CommunicationScore: 80}},
		{QuestionID: "q2", Question: "Q2?", Response: "ans", Duration: "00:30",
			Evaluation: &domain.Evaluation{Score: 60, TechnicalScore: 60, CommunicationScore: 60}},
	}
	require.NoError(t, store.Upsert(ctx, sess))

	client := funcClient{fn: func(_, _ string) (string, error) {
		return "", domain.ErrUpstreamFailure
	}}
	svc := usecase.NewService(store, client, usecase.Options{})

	a, err := svc.Assessment(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 70, a.OverallScore)
	assert.Equal(t, "Recommended", a.Recommendation)
	assert.Equal(t, "1m 30s", a.InterviewDuration)
	assert.Len(t, a.DetailedQuestionAnalysis, 2)
}

func TestLogSecurityEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newService(t, usecase.Options{})

	_, err := svc.AnalyzeResume(ctx, "s1", "resume")
	require.NoError(t, err)

	err = svc.LogSecurityEvent(ctx, "s1", domain.SecurityEvent{
		Type: "tab_switch", Data: map[string]any{"count": 1},
	})
	require.NoError(t, err)

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, sess.SecurityEvents, 1)
	assert.Equal(t, "tab_switch", sess.SecurityEvents[0].Type)
	assert.NotEmpty(t, sess.SecurityEvents[0].Timestamp)

	err = svc.LogSecurityEvent(ctx, "ghost", domain.SecurityEvent{Type: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newService(t, usecase.Options{})
	setupInterview(t, svc)

	require.NoError(t, svc.Reset(ctx, "s1"))
	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)
	assert.Nil(t, sess.Profile)
	assert.Empty(t, sess.Questions)

	err = svc.Reset(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
