package chat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendPreservesOrder(t *testing.T) {
	session := NewSession()

	session.Append(RoleUser, "Uploaded an image for analysis")
	session.Append(RoleAssistant, "🟢 Threat Level: LOW")
	session.Append(RoleUser, "Submitted text for analysis")

	entries := session.Entries()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Role != RoleUser || entries[1].Role != RoleAssistant {
		t.Error("Entries out of order")
	}
	if entries[1].Content != "🟢 Threat Level: LOW" {
		t.Errorf("Unexpected content: %q", entries[1].Content)
	}
}

func TestAppendAssignsUniqueIDs(t *testing.T) {
	session := NewSession()

	first := session.Append(RoleUser, "a")
	second := session.Append(RoleUser, "b")

	if first.ID == "" || second.ID == "" {
		t.Fatal("Expected non-empty IDs")
	}
	if first.ID == second.ID {
		t.Error("Expected distinct IDs")
	}
	if first.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
}

func TestPersistentSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()

	session := NewPersistentSession(dir)
	session.Append(RoleUser, "Shared my location")
	session.Append(RoleAssistant, "📍 I found guidance for your area.")

	loaded, err := LoadLatestSession(dir)
	if err != nil {
		t.Fatalf("LoadLatestSession failed: %v", err)
	}

	if loaded.Len() != 2 {
		t.Fatalf("Expected 2 entries after reload, got %d", loaded.Len())
	}
	if loaded.Entries()[0].Content != "Shared my location" {
		t.Errorf("Unexpected first entry: %q", loaded.Entries()[0].Content)
	}
}

func TestLoadLatestSessionEmptyDir(t *testing.T) {
	session, err := LoadLatestSession(t.TempDir())
	if err != nil {
		t.Fatalf("LoadLatestSession failed: %v", err)
	}
	if session.Len() != 0 {
		t.Errorf("Expected empty session, got %d entries", session.Len())
	}
}

func TestLoadSessionByID(t *testing.T) {
	dir := t.TempDir()
	content := `{"id":"1","role":"user","content":"hello","timestamp":"2026-08-28T10:00:00Z"}` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "2026-08-28-1000.jsonl"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to seed history: %v", err)
	}

	session, err := LoadSessionByID(dir, "2026-08-28-1000")
	if err != nil {
		t.Fatalf("LoadSessionByID failed: %v", err)
	}
	if session.Len() != 1 || session.Entries()[0].Content != "hello" {
		t.Errorf("Unexpected session contents: %+v", session.Entries())
	}

	if _, err := LoadSessionByID(dir, "missing"); err == nil {
		t.Error("Expected error for missing session")
	}
}

func TestLoadSkipsInvalidLines(t *testing.T) {
	dir := t.TempDir()
	content := "not json\n" +
		`{"id":"1","role":"assistant","content":"ok","timestamp":"2026-08-28T10:00:00Z"}` + "\n" +
		"\n"
	if err := os.WriteFile(filepath.Join(dir, "2026-08-28-1200.jsonl"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to seed history: %v", err)
	}

	session, err := LoadLatestSession(dir)
	if err != nil {
		t.Fatalf("LoadLatestSession failed: %v", err)
	}
	if session.Len() != 1 {
		t.Errorf("Expected 1 valid entry, got %d", session.Len())
	}
}

func TestListAvailableSessionsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2026-08-27-0900.jsonl", "2026-08-28-1400.jsonl", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0644); err != nil {
			t.Fatalf("Failed to seed: %v", err)
		}
	}

	sessions, err := ListAvailableSessions(dir)
	if err != nil {
		t.Fatalf("ListAvailableSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0] != "2026-08-28-1400" {
		t.Errorf("Expected newest first, got %v", sessions)
	}
}
