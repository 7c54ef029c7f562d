package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRepository_Defaults(t *testing.T) {
	repo, err := NewRepository(Defaults())
	require.NoError(t, err)
	require.Equal(t, 2, repo.Len())

	counter, ok := repo.CounterFor("match_end")
	require.True(t, ok)
	require.Equal(t, CounterGames, counter)

	counter, ok = repo.CounterFor("lesson_step_completed")
	require.True(t, ok)
	require.Equal(t, CounterLessonSteps, counter)

	_, ok = repo.CounterFor("lesson_started")
	require.False(t, ok)
}

func TestNewRepository_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		rules []CounterRule
	}{
		{
			name:  "unknown counter",
			rules: []CounterRule{{EventType: "match_end", Counter: "wins"}},
		},
		{
			name:  "empty event type",
			rules: []CounterRule{{EventType: "  ", Counter: CounterGames}},
		},
		{
			name: "duplicate event type",
			rules: []CounterRule{
				{EventType: "match_end", Counter: CounterGames},
				{EventType: "match_end", Counter: CounterLessonSteps},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRepository(tc.rules)
			require.Error(t, err)
		})
	}
}

func TestLoadDir_MissingDirFallsBackToDefaults(t *testing.T) {
	loaded, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), loaded)
}

func TestLoadDir_EmptyConfiguredPathFallsBackToDefaults(t *testing.T) {
	loaded, err := LoadDir("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), loaded)
}

func TestLoadDir_ReadsRuleFiles(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "games.yaml", "event_type: match_end\ncounter: games\n")
	writeRule(t, dir, "steps.yml", "event_type: tutorial_step\ncounter: lesson_steps\n")
	writeRule(t, dir, "ignored.txt", "not a rule")

	loaded, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	repo, err := NewRepository(loaded)
	require.NoError(t, err)

	counter, ok := repo.CounterFor("tutorial_step")
	require.True(t, ok)
	require.Equal(t, CounterLessonSteps, counter)
}

func TestLoadDir_RejectsMalformedRule(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "bad.yaml", "event_type: match_end\ncounter: nonsense\n")

	_, err := LoadDir(dir)
	require.Error(t, err)
}

func writeRule(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
