// Package stub is a fast, deterministic completion client for dev and tests.
package stub

import (
	"encoding/json"
	"strings"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

// Client answers every stage with canned, schema-correct JSON. The stage is
// inferred from markers in the user prompt, mirroring how the prompt builder
// phrases each instruction.
type Client struct{}

// New returns a stub client.
func New() *Client { return &Client{} }

// Complete returns deterministic JSON for the stage the prompt belongs to.
func (c *Client) Complete(_ domain.Context, _, userPrompt string) (string, error) {
	switch {
	case strings.Contains(userPrompt, "Resume Text:"):
		return marshal(map[string]any{
			"name":              "Jane Doe",
			"email":             "jane.doe@example.com",
			"experience":        "5 years",
			"key_skills":        []string{"Python", "Go", "Distributed Systems"},
			"inferred_position": "Backend Engineer",
		}), nil
	case strings.Contains(userPrompt, "generate interview questions"):
		qs := []map[string]any{
			{"id": "tech_1", "question": "Explain the concept of RESTful APIs.", "tags": []string{"technical", "api"}},
			{"id": "tech_2", "question": "What is a goroutine and how does it differ from a thread?", "tags": []string{"technical"}},
			{"id": "soft_1", "question": "Describe a conflict you resolved within a team.", "tags": []string{"soft skills"}},
			{"id": "comm_1", "question": "How do you explain technical topics to non-technical stakeholders?", "tags": []string{"communication"}},
		}
		if strings.Contains(userPrompt, "Coding Challenge") {
			qs = append(qs, map[string]any{
				"id": "code_1", "question": "Write a function to reverse a string.", "tags": []string{"coding", "programming"},
			})
		}
		return marshal(map[string]any{"questions": qs}), nil
	case strings.Contains(userPrompt, "code evaluator"):
		return marshal(map[string]any{
			"correctness": 85, "logic": 90, "syntax": 95, "overall_score": 90,
			"feedback":   "Code is correct and solves the problem efficiently.",
			"has_errors": false,
		}), nil
	case strings.Contains(userPrompt, "Candidate's Response:"):
		return marshal(map[string]any{
			"technicalScore":     78,
			"communicationScore": 82,
			"relevanceScore":     80,
			"feedback":           "Clear, relevant answer with good technical depth.",
		}), nil
	default:
		return marshal(map[string]any{
			"overallScore":   80,
			"recommendation": "Recommended",
			"detailedScores": map[string]int{
				"technicalSkills": 80, "communication": 82, "softSkills": 78,
			},
			"detailedQuestionAnalysis": []any{},
			"keyStrengths":             []string{"Strong technical foundation.", "Communicates clearly."},
			"areasForImprovement":      []string{"More depth on system design."},
		}), nil
	}
}

func marshal(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
