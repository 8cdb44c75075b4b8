package recorder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

// fakeSource streams a fixed payload in small chunks.
type fakeSource struct {
	data     []byte
	mimeType string
	startErr error
}

func (f *fakeSource) MIME() string {
	return f.mimeType
}

func (f *fakeSource) Start(ctx context.Context) (io.ReadCloser, func() error, error) {
	if f.startErr != nil {
		return nil, nil, f.startErr
	}
	return io.NopCloser(bytes.NewReader(f.data)), func() error { return nil }, nil
}

func TestSessionAccumulatesChunks(t *testing.T) {
	payload := bytes.Repeat([]byte("audio"), 20000)
	session := NewSession(&fakeSource{data: payload, mimeType: "audio/wav"})

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !session.Recording() {
		t.Error("Expected Recording() true after Start")
	}

	// Let the drain goroutine consume the stream.
	time.Sleep(50 * time.Millisecond)

	clip, err := session.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if !bytes.Equal(clip.Data, payload) {
		t.Errorf("Clip data mismatch: got %d bytes, expected %d", len(clip.Data), len(payload))
	}
	if clip.Filename != "recording.wav" {
		t.Errorf("Expected recording.wav, got %q", clip.Filename)
	}
	if clip.MIME != "audio/wav" {
		t.Errorf("Expected audio/wav, got %q", clip.MIME)
	}
	if session.Recording() {
		t.Error("Expected Recording() false after Stop")
	}
}

func TestSessionWebmExtension(t *testing.T) {
	session := NewSession(&fakeSource{data: []byte("x"), mimeType: "audio/webm"})
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	clip, err := session.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if clip.Filename != "recording.webm" {
		t.Errorf("Expected recording.webm, got %q", clip.Filename)
	}
}

func TestStopWithoutStart(t *testing.T) {
	session := NewSession(&fakeSource{})
	if _, err := session.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Expected ErrNotRecording, got %v", err)
	}
}

func TestStartFailurePropagates(t *testing.T) {
	session := NewSession(&fakeSource{startErr: errors.New("device busy")})
	if err := session.Start(context.Background()); err == nil {
		t.Fatal("Expected Start to fail")
	}
	if session.Recording() {
		t.Error("Expected Recording() false after failed Start")
	}
}

func TestDoubleStartRejected(t *testing.T) {
	session := NewSession(&fakeSource{data: []byte("x"), mimeType: "audio/wav"})
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := session.Start(context.Background()); err == nil {
		t.Fatal("Expected second Start to be rejected")
	}
	session.Stop()
}

func TestEmptyRecordingIsAnError(t *testing.T) {
	session := NewSession(&fakeSource{data: nil, mimeType: "audio/wav"})
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := session.Stop(); err == nil {
		t.Fatal("Expected error for empty recording")
	}
}
