// ABOUTME: Tests for session-scoped notification storage.
// ABOUTME: Verifies ordering, session isolation, and pop-once semantics.

package store

import "testing"

func TestMessages_PopOnce(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()

	if _, err := s.AddMessage("sess-a", LevelSuccess, "first"); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if _, err := s.AddMessage("sess-a", "", "second"); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if _, err := s.AddMessage("sess-b", LevelInfo, "other session"); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	msgs, err := s.PopMessages("sess-a")
	if err != nil {
		t.Fatalf("PopMessages() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("PopMessages() returned %d messages, want 2", len(msgs))
	}
	if msgs[0].Body != "first" || msgs[1].Body != "second" {
		t.Errorf("messages out of order: %q, %q", msgs[0].Body, msgs[1].Body)
	}
	if msgs[1].Level != LevelInfo {
		t.Errorf("default level = %q, want %q", msgs[1].Level, LevelInfo)
	}

	msgs, err = s.PopMessages("sess-a")
	if err != nil {
		t.Fatalf("PopMessages() error = %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("second PopMessages() returned %d messages, want 0", len(msgs))
	}

	msgs, err = s.PeekMessages("sess-b")
	if err != nil {
		t.Fatalf("PeekMessages() error = %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("other session has %d messages, want 1", len(msgs))
	}
}
