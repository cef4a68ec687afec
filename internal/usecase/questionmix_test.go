package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMixFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultQuestionMix(t *testing.T) {
	t.Parallel()
	mix := DefaultQuestionMix()
	assert.Equal(t, 15, mix.Total(false))
	assert.Equal(t, 17, mix.Total(true))
}

func TestLoadQuestionMix_FullOverride(t *testing.T) {
	t.Parallel()
	path := writeMixFile(t, "technical: 4\nsoft_skills: 2\ncommunication: 1\ncoding: 1\n")
	mix, err := LoadQuestionMix(path)
	require.NoError(t, err)
	assert.Equal(t, QuestionMix{Technical: 4, SoftSkills: 2, Communication: 1, Coding: 1}, mix)
}

func TestLoadQuestionMix_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := writeMixFile(t, "technical: 5\n")
	mix, err := LoadQuestionMix(path)
	require.NoError(t, err)
	assert.Equal(t, 5, mix.Technical)
	assert.Equal(t, 3, mix.SoftSkills)
	assert.Equal(t, 2, mix.Communication)
	assert.Equal(t, 2, mix.Coding)
}

func TestLoadQuestionMix_Invalid(t *testing.T) {
	t.Parallel()

	_, err := LoadQuestionMix(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	path := writeMixFile(t, "technical: -1\n")
	_, err = LoadQuestionMix(path)
	assert.Error(t, err)

	path = writeMixFile(t, "technical: [broken\n")
	mix, err := LoadQuestionMix(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultQuestionMix(), mix)
}

func TestLoadQuestionMix_AllZero(t *testing.T) {
	t.Parallel()
	path := writeMixFile(t, "technical: 0\nsoft_skills: 0\ncommunication: 0\ncoding: 0\n")
	_, err := LoadQuestionMix(path)
	assert.Error(t, err)
}
