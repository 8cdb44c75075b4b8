// Package chat keeps the interleaved conversation transcript shared by all
// analysis modes.
package chat

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored an entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one transcript line. Entries are immutable once appended.
type Entry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the append-only conversation log. It lives in memory; when
// created with a history file it also appends every entry as a JSON line so
// a conversation can be resumed later.
type Session struct {
	entries     []Entry
	historyFile string
}

// NewSession creates an in-memory session without persistence.
func NewSession() *Session {
	return &Session{}
}

// NewPersistentSession creates a session that appends entries to a fresh
// timestamped JSONL file under historyDir.
func NewPersistentSession(historyDir string) *Session {
	timestamp := time.Now().Format("2006-01-02-1504")
	return &Session{
		historyFile: filepath.Join(historyDir, fmt.Sprintf("%s.jsonl", timestamp)),
	}
}

// LoadLatestSession resumes the most recent persisted session under
// historyDir, or starts a fresh persistent one when none exists.
func LoadLatestSession(historyDir string) (*Session, error) {
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	files, err := os.ReadDir(historyDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var latest string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".jsonl") {
			if latest == "" || file.Name() > latest {
				latest = file.Name()
			}
		}
	}

	if latest == "" {
		return NewPersistentSession(historyDir), nil
	}

	session := &Session{historyFile: filepath.Join(historyDir, latest)}
	if err := session.loadFromFile(); err != nil {
		return NewPersistentSession(historyDir), nil
	}
	return session, nil
}

// LoadSessionByID resumes a specific persisted session. The ID is the
// timestamp portion of its filename.
func LoadSessionByID(historyDir, sessionID string) (*Session, error) {
	historyFile := filepath.Join(historyDir, fmt.Sprintf("%s.jsonl", sessionID))
	if _, err := os.Stat(historyFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}

	session := &Session{historyFile: historyFile}
	if err := session.loadFromFile(); err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return session, nil
}

// ListAvailableSessions returns persisted session IDs, newest first.
func ListAvailableSessions(historyDir string) ([]string, error) {
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	files, err := os.ReadDir(historyDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var sessions []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".jsonl") {
			sessions = append(sessions, strings.TrimSuffix(file.Name(), ".jsonl"))
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i] > sessions[j]
	})
	return sessions, nil
}

// Append adds an entry to the transcript and returns it. Entries keep their
// relative order; nothing is ever rewritten or removed.
func (s *Session) Append(role Role, content string) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	s.entries = append(s.entries, entry)

	if s.historyFile != "" {
		// Persistence is best effort; a full disk must not lose the
		// in-memory transcript.
		s.saveToFile(entry)
	}
	return entry
}

// Entries returns the transcript in append order.
func (s *Session) Entries() []Entry {
	return s.entries
}

// Len returns the number of entries.
func (s *Session) Len() int {
	return len(s.entries)
}

func (s *Session) saveToFile(entry Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.historyFile), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	file, err := os.OpenFile(s.historyFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	_, err = file.Write(append(data, '\n'))
	return err
}

func (s *Session) loadFromFile() error {
	file, err := os.Open(s.historyFile)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue // Skip invalid lines
		}
		s.entries = append(s.entries, entry)
	}

	return scanner.Err()
}
