package usecase

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QuestionMix controls how many questions of each category the interview
// setup asks the model to generate. Coding questions are only requested for
// coding roles.
type QuestionMix struct {
	Technical     int `yaml:"technical"`
	SoftSkills    int `yaml:"soft_skills"`
	Communication int `yaml:"communication"`
	Coding        int `yaml:"coding"`
}

// DefaultQuestionMix matches the stock interview shape.
func DefaultQuestionMix() QuestionMix {
	return QuestionMix{Technical: 10, SoftSkills: 3, Communication: 2, Coding: 2}
}

// Total returns the number of questions the mix produces for a role.
func (m QuestionMix) Total(codingRole bool) int {
	n := m.Technical + m.SoftSkills + m.Communication
	if codingRole {
		n += m.Coding
	}
	return n
}

// LoadQuestionMix reads a mix override from a YAML file. Fields left unset in
// the file keep their default values; negative counts are rejected.
func LoadQuestionMix(path string) (QuestionMix, error) {
	mix := DefaultQuestionMix()
	raw, err := os.ReadFile(path)
	if err != nil {
		return mix, fmt.Errorf("op=LoadQuestionMix: %w", err)
	}
	if err := yaml.Unmarshal(raw, &mix); err != nil {
		return DefaultQuestionMix(), fmt.Errorf("op=LoadQuestionMix: parse %s: %w", path, err)
	}
	if mix.Technical < 0 || mix.SoftSkills < 0 || mix.Communication < 0 || mix.Coding < 0 {
		return DefaultQuestionMix(), fmt.Errorf("op=LoadQuestionMix: %s: counts must be non-negative", path)
	}
	if mix.Total(true) == 0 {
		return DefaultQuestionMix(), fmt.Errorf("op=LoadQuestionMix: %s: mix produces no questions", path)
	}
	return mix, nil
}
