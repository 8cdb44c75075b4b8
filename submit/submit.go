// Package submit prepares evidence payloads and guards each analysis mode
// with a single in-flight request.
package submit

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/HafizAtif90/ai-guardian/analysis"
)

// Size ceilings per upload mode, enforced before any network work starts.
const (
	MaxImageBytes = 10 << 20
	MaxVideoBytes = 50 << 20
	MaxAudioBytes = 10 << 20

	// MaxTextRunes caps a text submission, counted in code points.
	MaxTextRunes = 10000
)

// Accepted MIME types per upload mode.
var acceptedTypes = map[analysis.Mode][]string{
	analysis.ModeImage: {"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"},
	analysis.ModeVideo: {"video/mp4", "video/quicktime", "video/x-msvideo", "video/webm"},
	analysis.ModeAudio: {"audio/mpeg", "audio/mp3", "audio/wav", "audio/webm", "audio/ogg", "audio/m4a"},
}

var sizeCeilings = map[analysis.Mode]int{
	analysis.ModeImage: MaxImageBytes,
	analysis.ModeVideo: MaxVideoBytes,
	analysis.ModeAudio: MaxAudioBytes,
}

// ValidationError is a locally rejected submission. It never reaches the
// network; Message is shown to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Payload is one validated piece of evidence ready to submit.
type Payload struct {
	Mode     analysis.Mode
	Filename string
	MIME     string
	Data     []byte
	Text     string
}

// State tracks where a mode's submitter is in its lifecycle.
type State int

const (
	// Idle means nothing is selected yet.
	Idle State = iota
	// Ready means a payload is staged and can be submitted.
	Ready
	// Pending means a request is in flight and further submissions are
	// rejected until it resolves.
	Pending
)

// Submitter holds the staged payload and flight state for one mode. Each mode
// gets its own instance so a pending image upload never blocks a text
// submission. It is driven from a single goroutine and needs no locking.
type Submitter struct {
	mode    analysis.Mode
	payload *Payload
	state   State
}

// New creates a Submitter for the given mode.
func New(mode analysis.Mode) *Submitter {
	return &Submitter{mode: mode}
}

// Mode returns the mode this submitter serves.
func (s *Submitter) Mode() analysis.Mode {
	return s.mode
}

// State returns the current lifecycle state.
func (s *Submitter) State() State {
	return s.state
}

// Payload returns the staged payload, or nil when none is selected.
func (s *Submitter) Payload() *Payload {
	return s.payload
}

// Select stages a file payload after validating its type and size. Selecting
// replaces any previously staged payload. Selection is allowed while a
// request is pending; submission is not.
func (s *Submitter) Select(filename string, data []byte) error {
	if s.mode == analysis.ModeText {
		return &ValidationError{Message: "This mode accepts text, not files."}
	}

	mimeType := DetectMIME(filename)
	if !Accepts(s.mode, mimeType) {
		return &ValidationError{Message: unsupportedTypeMessage(s.mode)}
	}
	if ceiling := sizeCeilings[s.mode]; len(data) > ceiling {
		return &ValidationError{Message: fmt.Sprintf("File is too large. Maximum size is %dMB.", ceiling>>20)}
	}

	s.payload = &Payload{Mode: s.mode, Filename: filepath.Base(filename), MIME: mimeType, Data: data}
	if s.state == Idle {
		s.state = Ready
	}
	return nil
}

// SelectText stages a text payload after validating it is non-blank and
// within the length cap. The staged text is trimmed.
func (s *Submitter) SelectText(text string) error {
	if s.mode != analysis.ModeText {
		return &ValidationError{Message: "This mode accepts files, not text."}
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &ValidationError{Message: "Please enter some text to analyze"}
	}
	if utf8.RuneCountInString(text) > MaxTextRunes {
		return &ValidationError{Message: "Text must be under 10,000 characters"}
	}

	s.payload = &Payload{Mode: s.mode, Text: trimmed}
	if s.state == Idle {
		s.state = Ready
	}
	return nil
}

// Begin transitions to Pending and hands back the payload to submit. It fails
// when nothing is staged or a request is already in flight.
func (s *Submitter) Begin() (*Payload, error) {
	switch s.state {
	case Pending:
		return nil, &ValidationError{Message: "An analysis is already in progress."}
	case Idle:
		return nil, &ValidationError{Message: missingPayloadMessage(s.mode)}
	}

	s.state = Pending
	return s.payload, nil
}

// Complete records a successful round trip and clears the staged payload.
func (s *Submitter) Complete() {
	s.state = Idle
	s.payload = nil
}

// Fail records a failed round trip. The payload stays staged so the user can
// retry without reselecting.
func (s *Submitter) Fail() {
	if s.payload != nil {
		s.state = Ready
	} else {
		s.state = Idle
	}
}

// Accepts reports whether mode allows the given MIME type.
func Accepts(mode analysis.Mode, mimeType string) bool {
	base := mimeType
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	base = strings.ToLower(strings.TrimSpace(base))
	for _, accepted := range acceptedTypes[mode] {
		if base == accepted {
			return true
		}
	}
	return false
}

// DetectMIME resolves a filename to a MIME type, with fixups for the audio
// extensions Go's table maps differently than the service expects.
func DetectMIME(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/m4a"
	case ".ogg":
		return "audio/ogg"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

func unsupportedTypeMessage(mode analysis.Mode) string {
	switch mode {
	case analysis.ModeImage:
		return "Unsupported file type. Please choose a JPEG, PNG, GIF, or WebP image."
	case analysis.ModeVideo:
		return "Unsupported file type. Please choose an MP4, MOV, AVI, or WebM video."
	}
	return "Unsupported file type. Please choose an MP3, WAV, WebM, OGG, or M4A recording."
}

func missingPayloadMessage(mode analysis.Mode) string {
	switch mode {
	case analysis.ModeAudio:
		return "Please record or upload an audio file"
	case analysis.ModeText:
		return "Please enter some text to analyze"
	}
	return "Please select a file"
}
