package submit

import (
	"errors"
	"strings"
	"testing"

	"github.com/HafizAtif90/ai-guardian/analysis"
)

func TestSelectValidImage(t *testing.T) {
	s := New(analysis.ModeImage)

	if err := s.Select("/tmp/evidence/scene.jpg", []byte("bytes")); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if s.State() != Ready {
		t.Errorf("Expected Ready state, got %v", s.State())
	}
	p := s.Payload()
	if p.Filename != "scene.jpg" {
		t.Errorf("Expected base filename, got %q", p.Filename)
	}
	if p.MIME != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %q", p.MIME)
	}
}

func TestSelectRejectsWrongType(t *testing.T) {
	s := New(analysis.ModeImage)

	err := s.Select("notes.pdf", []byte("x"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if s.State() != Idle {
		t.Errorf("Expected Idle after rejected select, got %v", s.State())
	}
}

func TestSelectRejectsOversizedFile(t *testing.T) {
	s := New(analysis.ModeImage)

	err := s.Select("big.png", make([]byte, MaxImageBytes+1))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Message, "10MB") {
		t.Errorf("Expected ceiling in message, got %q", verr.Message)
	}
}

func TestVideoCeilingLargerThanImage(t *testing.T) {
	s := New(analysis.ModeVideo)

	if err := s.Select("clip.mp4", make([]byte, MaxImageBytes+1)); err != nil {
		t.Fatalf("Video under 50MB should be accepted: %v", err)
	}
	if err := s.Select("clip.mp4", make([]byte, MaxVideoBytes+1)); err == nil {
		t.Fatal("Expected rejection over 50MB")
	}
}

func TestSelectTextValidation(t *testing.T) {
	s := New(analysis.ModeText)

	err := s.SelectText("   ")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError for blank text, got %v", err)
	}
	if verr.Message != "Please enter some text to analyze" {
		t.Errorf("Unexpected message: %q", verr.Message)
	}

	if err := s.SelectText(strings.Repeat("a", MaxTextRunes+1)); err == nil {
		t.Fatal("Expected rejection over the length cap")
	}

	// The cap counts code points, not bytes.
	if err := s.SelectText(strings.Repeat("€", MaxTextRunes)); err != nil {
		t.Errorf("Multibyte text at the cap should be accepted: %v", err)
	}
}

func TestSelectTextTrims(t *testing.T) {
	s := New(analysis.ModeText)

	if err := s.SelectText("  help me  "); err != nil {
		t.Fatalf("SelectText failed: %v", err)
	}
	if s.Payload().Text != "help me" {
		t.Errorf("Expected trimmed text, got %q", s.Payload().Text)
	}
}

func TestSingleFlight(t *testing.T) {
	s := New(analysis.ModeImage)
	if err := s.Select("a.png", []byte("x")); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if _, err := s.Begin(); err != nil {
		t.Fatalf("First Begin failed: %v", err)
	}
	if s.State() != Pending {
		t.Errorf("Expected Pending, got %v", s.State())
	}

	if _, err := s.Begin(); err == nil {
		t.Fatal("Expected second Begin to be rejected while pending")
	}

	s.Complete()
	if s.State() != Idle {
		t.Errorf("Expected Idle after Complete, got %v", s.State())
	}
	if s.Payload() != nil {
		t.Error("Expected payload cleared after Complete")
	}
}

func TestFailKeepsPayloadForRetry(t *testing.T) {
	s := New(analysis.ModeAudio)
	if err := s.Select("clip.wav", []byte("x")); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if _, err := s.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	s.Fail()

	if s.State() != Ready {
		t.Errorf("Expected Ready after failure, got %v", s.State())
	}
	if _, err := s.Begin(); err != nil {
		t.Errorf("Retry should be allowed: %v", err)
	}
}

func TestBeginWithoutPayload(t *testing.T) {
	tests := []struct {
		mode    analysis.Mode
		message string
	}{
		{analysis.ModeImage, "Please select a file"},
		{analysis.ModeAudio, "Please record or upload an audio file"},
		{analysis.ModeText, "Please enter some text to analyze"},
	}

	for _, test := range tests {
		s := New(test.mode)
		_, err := s.Begin()
		if err == nil || err.Error() != test.message {
			t.Errorf("Begin(%s) error = %v, expected %q", test.mode, err, test.message)
		}
	}
}

func TestSelectReplacesStagedPayload(t *testing.T) {
	s := New(analysis.ModeImage)
	if err := s.Select("first.png", []byte("a")); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := s.Select("second.png", []byte("b")); err != nil {
		t.Fatalf("Second select failed: %v", err)
	}
	if s.Payload().Filename != "second.png" {
		t.Errorf("Expected replacement, got %q", s.Payload().Filename)
	}
}

func TestAccepts(t *testing.T) {
	if !Accepts(analysis.ModeAudio, "audio/webm;codecs=opus") {
		t.Error("Expected parameterized MIME type to match")
	}
	if Accepts(analysis.ModeImage, "image/tiff") {
		t.Error("Expected tiff to be rejected")
	}
}
