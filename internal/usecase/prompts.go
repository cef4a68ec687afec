package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

// SystemPrompt pins the model to raw-JSON output for every stage. Models
// still wrap output in prose often enough that recovery stays mandatory.
const SystemPrompt = "You are a helpful assistant that strictly follows instructions. " +
	"You MUST return JSON objects as requested by the user. Do not add any explanatory text, " +
	"apologies, or markdown formatting before or after the JSON object. " +
	"Just return the raw JSON object and nothing else."

// Prompt builders are pure: (stage inputs) -> instruction string. Output-shape
// validation happens after recovery, never here.

func profilePrompt(resumeText string) string {
	return fmt.Sprintf(`Analyze the following resume text and extract the candidate's name, email, total years of experience (if quantifiable, otherwise a brief summary like "2 roles (5 years)"), a list of key skills, and an inferred primary job role/position.

Ensure the 'key_skills' is always a JSON array of strings, even if empty.

Format the output strictly as a JSON object with the following keys: `+"`name`"+` (string), `+"`email`"+` (string), `+"`experience`"+` (string, e.g., "5 years" or "2 roles (5 years)"), `+"`key_skills`"+` (array of strings), `+"`inferred_position`"+` (string).

Example JSON output:
{
  "name": "John Doe",
  "email": "john.doe@example.com",
  "experience": "5 years",
  "key_skills": ["Python", "Machine Learning", "Data Science"],
  "inferred_position": "Data Scientist"
}

You MUST return ONLY the JSON object. Do not add any other text.

Resume Text:
---
%s
---`, resumeText)
}

const codingQuestionRules = `- %d Coding Challenge questions (IMPORTANT: These MUST be simple, self-contained problems that can run in a browser without external libraries, databases, or file systems)

CODING QUESTION RULES:
1. NO external libraries (no requests, pandas, numpy, etc.) - only built-in functions
2. NO database queries (no SQL, no database connections)
3. NO file operations (no reading/writing files)
4. NO web scraping or API calls
5. ONLY use: basic math, strings, arrays/lists, loops, conditionals, functions
6. Problems should be solvable in 5-10 lines of code
7. Must have clear input/output that can be tested with print statements

GOOD EXAMPLES:
- Write a function to reverse a string
- Calculate factorial of a number
- Find the largest number in an array
- Check if a string is a palindrome

BAD EXAMPLES (DO NOT USE):
- Scrape data from a website
- Query a database
- Use pandas/numpy/requests libraries
- Read/write files
- Connect to APIs`

func questionsPrompt(profile domain.CandidateProfile, positionRole string, mix QuestionMix, codingRole bool) string {
	name := profile.Name
	if name == "" {
		name = "Candidate"
	}
	experience := profile.Experience
	if experience == "" {
		experience = "N/A"
	}
	skills := strings.Join(profile.KeySkills, ", ")

	codingSection := ""
	if codingRole && mix.Coding > 0 {
		codingSection = fmt.Sprintf(codingQuestionRules, mix.Coding)
	}

	return fmt.Sprintf(`As an expert interviewer, generate interview questions for a candidate named %s applying for a '%s' role.
The candidate has %s of experience and these key skills: %s.

Generate the following specific number of questions:
- %d Technical questions (theory, concepts, best practices - NO coding)
- %d Soft Skills questions
- %d Communication Skills questions
%s

For each question, also provide 1-3 relevant tags.
- For coding questions, use tags: ["coding", "programming"]
- For other questions, use tags like: 'technical', 'experience', 'soft skills', 'problem-solving', 'leadership', 'communication', 'project'

Format the output strictly as a JSON array of objects, inside a single parent JSON object with a key 'questions'. Each object in the array should have the following keys:
- `+"`id`"+`: A unique string ID for the question (e.g., "tech_1", "soft_1").
- `+"`question`"+`: The interview question.
- `+"`tags`"+`: An array of strings representing the tags.

Example JSON format:
{
  "questions": [
    {
      "id": "q1",
      "question": "Can you describe a challenging project you worked on and how you overcame obstacles?",
      "tags": ["experience", "problem-solving"]
    }
  ]
}

You MUST return ONLY the JSON object. Do not add any other text.`,
		name, positionRole, experience, skills,
		mix.Technical, mix.SoftSkills, mix.Communication, codingSection)
}

func evaluationPrompt(question, answerText string) string {
	return fmt.Sprintf(`You are a STRICT AI interviewer. Evaluate the following candidate's response to an interview question.

CRITICAL EVALUATION RULES:
1. If the response contains random letters, gibberish, or nonsense (e.g., "tdciyctiyt", "asdfgh"), give 0-10 scores
2. If the response is empty, very short (less than 10 words), or just says "I don't know", give 0-20 scores
3. If the response is completely irrelevant to the question, give 0-30 scores
4. If the response shows some understanding but lacks depth, give 40-60 scores
5. Only give 70+ scores for well-structured, relevant, and technically accurate responses

Provide a score out of 100 for:
- Technical accuracy (0-100): How technically correct and accurate is the answer?
- Communication clarity (0-100): How clear and well-articulated is the response?
- Relevance to question (0-100): How relevant is the answer to the specific question asked?

Also provide brief, honest feedback explaining the scores.

Format the output strictly as a JSON object with the following keys:
- `+"`technicalScore`"+`: (integer 0-100)
- `+"`communicationScore`"+`: (integer 0-100)
- `+"`relevanceScore`"+`: (integer 0-100)
- `+"`feedback`"+`: (string)

You MUST return ONLY the JSON object. Do not add any other text.

Question: "%s"
Candidate's Response: "%s"`, question, answerText)
}

func codeEvaluationPrompt(question, code string) string {
	return fmt.Sprintf("You are a code evaluator. Analyze the following code submission for a coding question.\n\n"+
		"Question: %s\n\n"+
		"Submitted Code:\n```\n%s\n```\n\n"+
		"Evaluate the code based on:\n"+
		"1. **Correctness**: Does it solve the problem correctly?\n"+
		"2. **Logic**: Is the logic sound and efficient?\n"+
		"3. **Syntax**: Is the code syntactically correct?\n"+
		"4. **Output**: Would it produce the correct output?\n\n"+
		"Provide scores (0-100) for each criterion and overall feedback.\n\n"+
		"Return ONLY a JSON object:\n"+
		"{\n"+
		"  \"correctness\": 85,\n"+
		"  \"logic\": 90,\n"+
		"  \"syntax\": 95,\n"+
		"  \"overall_score\": 90,\n"+
		"  \"feedback\": \"Code is correct and well-written.\",\n"+
		"  \"has_errors\": false\n"+
		"}\n\n"+
		"If the code has syntax errors or won't run, set has_errors to true and give low scores.", question, code)
}

func assessmentPrompt(profile domain.CandidateProfile, responseSummaries []string, durationLabel string) string {
	profileJSON, _ := json.MarshalIndent(profile, "", "  ")
	divider := strings.Repeat("-", 30)
	return fmt.Sprintf(`Generate a comprehensive interview assessment report based on the following candidate profile and interview responses.

Candidate Profile: %s

Interview Questions and Responses:
%s
%s
%s

Overall Interview Duration: %s

Provide the assessment strictly as a JSON object with the following structure:
- `+"`overallScore`"+`: (integer 0-100, aggregate score based on all responses)
- `+"`recommendation`"+`: (string, e.g., "Highly Recommended", "Recommended", "Consider with Reservations", "Not Recommended")
- `+"`interviewDuration`"+`: (string, e.g., "15m 30s")
- `+"`detailedScores`"+`: (object with `+"`technicalSkills`"+`, `+"`communication`"+`, `+"`softSkills`"+` - each an integer 0-100, derived from the evaluations)
- `+"`detailedQuestionAnalysis`"+`: (array of objects) Note: For this field, you MUST return an empty array []. It will be populated by the server.
- `+"`keyStrengths`"+`: (array of strings, summarizing positive feedback)
- `+"`areasForImprovement`"+`: (array of strings, summarizing areas needing work)

You MUST return ONLY the JSON object. Do not add any other text.`,
		profileJSON, divider, strings.Join(responseSummaries, "\n\n"), divider, durationLabel)
}
