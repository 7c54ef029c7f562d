// Package rules maps telemetry event types to the player counter they bump.
// Rules are loaded once at startup from optional YAML files; when no rule
// directory is configured the built-in defaults apply.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Counter names a player aggregate counter.
const (
	CounterGames       = "games"
	CounterLessonSteps = "lesson_steps"
)

// CounterRule binds one event type to one counter. Events whose type matches
// no rule still update the player's last-seen fields but bump no counter.
type CounterRule struct {
	EventType string `yaml:"event_type"`
	Counter   string `yaml:"counter"`
}

func (r CounterRule) validate() error {
	if strings.TrimSpace(r.EventType) == "" {
		return fmt.Errorf("event_type is required")
	}
	if r.Counter != CounterGames && r.Counter != CounterLessonSteps {
		return fmt.Errorf("unknown counter %q (must be %s or %s)", r.Counter, CounterGames, CounterLessonSteps)
	}
	return nil
}

// Defaults returns the built-in rule set.
func Defaults() []CounterRule {
	return []CounterRule{
		{EventType: "match_end", Counter: CounterGames},
		{EventType: "lesson_step_completed", Counter: CounterLessonSteps},
	}
}

// Repository resolves event types to counters. Immutable after construction.
type Repository struct {
	byType map[string]string
}

// NewRepository builds a repository from the given rules, rejecting invalid
// counters and duplicate event types.
func NewRepository(counterRules []CounterRule) (*Repository, error) {
	byType := make(map[string]string, len(counterRules))
	for _, rule := range counterRules {
		if err := rule.validate(); err != nil {
			return nil, fmt.Errorf("counter rule for %q: %w", rule.EventType, err)
		}
		if _, exists := byType[rule.EventType]; exists {
			return nil, fmt.Errorf("duplicate counter rule for event type %q", rule.EventType)
		}
		byType[rule.EventType] = rule.Counter
	}
	return &Repository{byType: byType}, nil
}

// CounterFor returns the counter bumped by the given event type, if any.
func (r *Repository) CounterFor(eventType string) (string, bool) {
	counter, ok := r.byType[eventType]
	return counter, ok
}

// Len reports how many rules are loaded.
func (r *Repository) Len() int {
	return len(r.byType)
}

// LoadDir reads one rule per *.yaml/*.yml file in dir. A missing or empty
// directory yields the built-in defaults.
func LoadDir(dir string) ([]CounterRule, error) {
	if strings.TrimSpace(dir) == "" {
		return Defaults(), nil
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("counter rule dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("counter rule path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("counter rule dir: %w", err)
	}

	var loaded []CounterRule
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read counter rule %q: %w", path, err)
		}

		var rule CounterRule
		if err := yaml.Unmarshal(raw, &rule); err != nil {
			return nil, fmt.Errorf("parse counter rule %q: %w", path, err)
		}
		if err := rule.validate(); err != nil {
			return nil, fmt.Errorf("counter rule %q: %w", path, err)
		}

		loaded = append(loaded, rule)
	}

	if len(loaded) == 0 {
		return Defaults(), nil
	}
	return loaded, nil
}
