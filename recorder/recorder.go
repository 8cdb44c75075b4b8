// Package recorder captures microphone audio for the audio analysis mode.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

// MicAccessMessage is shown when the capture source cannot be opened.
const MicAccessMessage = "Failed to access microphone. Please check permissions."

// ErrNotRecording is returned by Stop when no capture is running.
var ErrNotRecording = errors.New("no recording in progress")

// Clip is a finished recording, ready to stage for submission.
type Clip struct {
	Filename string
	MIME     string
	Data     []byte
	Duration time.Duration
}

// Source produces raw audio data. Start returns a stream that yields encoded
// audio until the returned stop function is called.
type Source interface {
	Start(ctx context.Context) (io.ReadCloser, func() error, error)
	MIME() string
}

// CommandSource shells out to a capture utility (arecord, sox, ffmpeg) that
// writes encoded audio to stdout.
type CommandSource struct {
	Name string
	Args []string
	Type string
}

// NewCommandSource builds a Source around the given capture command.
// A typical invocation is arecord with wav output on stdout.
func NewCommandSource(name string, args []string, mimeType string) *CommandSource {
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	return &CommandSource{Name: name, Args: args, Type: mimeType}
}

func (c *CommandSource) MIME() string {
	return c.Type
}

func (c *CommandSource) Start(ctx context.Context) (io.ReadCloser, func() error, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", MicAccessMessage, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", MicAccessMessage, err)
	}

	stop := func() error {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		cmd.Wait()
		return nil
	}
	return stdout, stop, nil
}

// Session accumulates audio chunks from a Source as they arrive. Chunks are
// kept in memory and concatenated into one Clip when the session stops.
type Session struct {
	source Source

	mu        sync.Mutex
	chunks    [][]byte
	recording bool
	startedAt time.Time
	stop      func() error
	done      chan struct{}
	readErr   error
}

// NewSession creates a Session that records from the given source.
func NewSession(source Source) *Session {
	return &Session{source: source}
}

// Recording reports whether a capture is currently running.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Start opens the source and begins accumulating chunks in the background.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		return errors.New("recording already in progress")
	}

	stream, stop, err := s.source.Start(ctx)
	if err != nil {
		return err
	}

	s.chunks = nil
	s.readErr = nil
	s.recording = true
	s.startedAt = time.Now()
	s.stop = stop
	s.done = make(chan struct{})

	go s.drain(stream)
	return nil
}

func (s *Session) drain(stream io.ReadCloser) {
	defer close(s.done)
	defer stream.Close()

	buf := make([]byte, 32*1024)
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.mu.Lock()
			s.chunks = append(s.chunks, chunk)
			s.mu.Unlock()
		}
		if err != nil {
			if err != io.EOF {
				s.mu.Lock()
				s.readErr = err
				s.mu.Unlock()
			}
			return
		}
	}
}

// Stop ends the capture and returns the accumulated clip.
func (s *Session) Stop() (Clip, error) {
	s.mu.Lock()
	if !s.recording {
		s.mu.Unlock()
		return Clip{}, ErrNotRecording
	}
	s.recording = false
	stop := s.stop
	started := s.startedAt
	done := s.done
	s.mu.Unlock()

	stop()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	for _, chunk := range s.chunks {
		total += len(chunk)
	}
	data := make([]byte, 0, total)
	for _, chunk := range s.chunks {
		data = append(data, chunk...)
	}
	s.chunks = nil

	if len(data) == 0 {
		if s.readErr != nil {
			return Clip{}, fmt.Errorf("%s: %w", MicAccessMessage, s.readErr)
		}
		return Clip{}, errors.New("recording produced no audio")
	}

	return Clip{
		Filename: "recording" + extensionFor(s.source.MIME()),
		MIME:     s.source.MIME(),
		Data:     data,
		Duration: time.Since(started),
	}, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/webm":
		return ".webm"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/m4a":
		return ".m4a"
	}
	return ".wav"
}
