package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

// aiPenaltyFactor converts the classifier's percentage into score points:
// 80% AI-likelihood costs 40 points.
const aiPenaltyFactor = 0.5

// aiGeneratedThreshold marks an answer as machine-written above this
// percentage.
const aiGeneratedThreshold = 50.0

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func roundMean(vals ...int) int {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(vals))))
}

// combinedScore folds the per-axis evaluation into a single score. Plain
// answers use the rounded mean of the three axes. Coding answers blend the
// code score with the mean of the explanation axes, 70/30.
func combinedScore(ev *domain.Evaluation) int {
	if ev.CodeEvaluation != nil {
		ev.CodeScore = ev.CodeEvaluation.OverallScore
		ev.ExplanationScore = roundMean(ev.TechnicalScore, ev.CommunicationScore, ev.RelevanceScore)
		return clampScore(int(math.Round(0.7*float64(ev.CodeScore) + 0.3*float64(ev.ExplanationScore))))
	}
	return clampScore(roundMean(ev.TechnicalScore, ev.CommunicationScore, ev.RelevanceScore))
}

// applyAIPenalty subtracts the detection penalty and attaches the warning.
// The evaluation always carries the detection result, penalised or not.
func applyAIPenalty(ev *domain.Evaluation, det domain.AIDetection) {
	ev.AIDetection = &det
	if !det.IsAIGenerated {
		return
	}
	penalty := int(math.Round(det.AIPercentage * aiPenaltyFactor))
	ev.Score = clampScore(ev.Score - penalty)
	ev.AIWarning = fmt.Sprintf(
		"AI-generated content detected (%.1f%% likelihood). Score reduced by %d points.",
		det.AIPercentage, penalty)
}

// minRequiredResponses is the assessment gate: at least half the questions,
// rounded up, and never fewer than one.
func minRequiredResponses(totalQuestions int) int {
	n := (totalQuestions + 1) / 2
	if n < 1 {
		n = 1
	}
	return n
}

// parseDurationLabel reads a "MM:SS" label into seconds. Malformed labels
// count as zero so one bad client value cannot sink the report.
func parseDurationLabel(label string) int {
	parts := strings.SplitN(strings.TrimSpace(label), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	mins, err1 := strconv.Atoi(parts[0])
	secs, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || mins < 0 || secs < 0 {
		return 0
	}
	return mins*60 + secs
}

func formatDuration(totalSeconds int) string {
	return fmt.Sprintf("%dm %ds", totalSeconds/60, totalSeconds%60)
}

// totalInterviewDuration sums the per-answer duration labels.
func totalInterviewDuration(responses []domain.Response) string {
	total := 0
	for _, r := range responses {
		total += parseDurationLabel(r.Duration)
	}
	return formatDuration(total)
}

// questionAnalysis builds the per-question breakdown from recorded
// evaluations. The model never contributes to this field.
func questionAnalysis(responses []domain.Response) []domain.QuestionAnalysis {
	out := make([]domain.QuestionAnalysis, 0, len(responses))
	for _, r := range responses {
		qa := domain.QuestionAnalysis{
			Question: r.Question,
			Response: r.Response,
			Tags:     r.Tags,
		}
		if r.Evaluation != nil {
			qa.Score = r.Evaluation.Score
			qa.TechnicalScore = r.Evaluation.TechnicalScore
			qa.CommunicationScore = r.Evaluation.CommunicationScore
			qa.RelevanceScore = r.Evaluation.RelevanceScore
		}
		out = append(out, qa)
	}
	return out
}

// fallbackAssessment is the locally computed report used when the completion
// round trip for the final assessment fails. Purely numeric averages.
func fallbackAssessment(responses []domain.Response) domain.Assessment {
	var scores, tech, comm []int
	for _, r := range responses {
		if r.Evaluation == nil {
			continue
		}
		scores = append(scores, r.Evaluation.Score)
		tech = append(tech, r.Evaluation.TechnicalScore)
		comm = append(comm, r.Evaluation.CommunicationScore)
	}
	avg := roundMean(scores...)
	rec := "Needs Improvement"
	if avg >= 70 {
		rec = "Recommended"
	}
	return domain.Assessment{
		OverallScore:   avg,
		Recommendation: rec,
		DetailedScores: domain.DetailedScores{
			TechnicalSkills: roundMean(tech...),
			Communication:   roundMean(comm...),
			SoftSkills:      avg,
		},
		KeyStrengths:        []string{"Assessment generated from recorded scores."},
		AreasForImprovement: []string{"Detailed analysis unavailable; see per-question scores."},
	}
}
