package store

import (
	"fmt"
	"testing"
)

func TestAppendBoundsHistory(t *testing.T) {
	s := NewSession("+123")
	for i := 1; i <= MaxHistoryTurns+2; i++ {
		s.Append(Turn{UserText: fmt.Sprintf("question %d", i)})
	}

	if len(s.History) != MaxHistoryTurns {
		t.Fatalf("history length = %d, want %d", len(s.History), MaxHistoryTurns)
	}
	if s.History[0].UserText != "question 3" {
		t.Errorf("oldest turn = %q, want question 3", s.History[0].UserText)
	}
	if s.History[MaxHistoryTurns-1].UserText != "question 12" {
		t.Errorf("newest turn = %q, want question 12", s.History[MaxHistoryTurns-1].UserText)
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("+123")
	if s.Language != "" {
		t.Errorf("Language = %q, want empty", s.Language)
	}
	if s.History == nil || len(s.History) != 0 {
		t.Errorf("History = %v, want empty non-nil slice", s.History)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSession("+123")
	s.Language = "fr"
	s.Append(Turn{UserText: "bonjour", AssistantText: "salut"})

	c := s.Clone()
	c.Language = "en"
	c.History[0].UserText = "tampered"
	c.Append(Turn{UserText: "extra"})

	if s.Language != "fr" {
		t.Errorf("original language changed to %q", s.Language)
	}
	if s.History[0].UserText != "bonjour" {
		t.Errorf("original history changed to %q", s.History[0].UserText)
	}
	if len(s.History) != 1 {
		t.Errorf("original history length = %d, want 1", len(s.History))
	}
}
