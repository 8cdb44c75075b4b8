package tui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HafizAtif90/ai-guardian/analysis"
	"github.com/HafizAtif90/ai-guardian/evidence"
	"github.com/HafizAtif90/ai-guardian/geo"
	"github.com/HafizAtif90/ai-guardian/recorder"
	"github.com/HafizAtif90/ai-guardian/submit"
)

// analyzeCmd sends a staged payload to the analysis service off the event
// loop and reports back with a result or error message.
func analyzeCmd(client *analysis.Client, payload *submit.Payload, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var brief analysis.ThreatBrief
		var err error
		if payload.Mode == analysis.ModeText {
			brief, err = client.AnalyzeText(ctx, payload.Text)
		} else {
			brief, err = client.AnalyzeFile(ctx, payload.Mode, payload.Filename, payload.Data)
		}
		if err != nil {
			return analysisErrMsg{mode: payload.Mode, err: err}
		}
		return analysisResultMsg{brief: brief}
	}
}

// locateAndRouteCmd resolves the current position and requests the route
// briefing in one goroutine. A location failure short-circuits; the route
// service is never called without a position.
func locateAndRouteCmd(locator geo.Locator, client *analysis.Client, locateTimeout, requestTimeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		locCtx, cancel := context.WithTimeout(context.Background(), locateTimeout)
		loc, err := locator.Locate(locCtx)
		cancel()
		if err != nil {
			return routeErrMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		brief, err := client.SafeRoute(ctx, loc)
		if err != nil {
			return routeErrMsg{err: err}
		}
		return routeResultMsg{brief: brief}
	}
}

// stopRecordingCmd finishes a capture session and hands the clip back.
func stopRecordingCmd(session *recorder.Session) tea.Cmd {
	return func() tea.Msg {
		clip, err := session.Stop()
		return recordingStoppedMsg{clip: clip, err: err}
	}
}

// listEvidenceCmd refreshes the picker listing for a mode.
func listEvidenceCmd(dir string, mode analysis.Mode) tea.Cmd {
	return func() tea.Msg {
		files, err := evidence.ListFiles(dir, mode)
		return evidenceListMsg{mode: mode, files: files, err: err}
	}
}

// readFileCmd loads a picked file for staging. Read failures never touch the
// flight slot; only the goroutine spawned by analyzeCmd may release it.
func readFileCmd(path string, mode analysis.Mode) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return fileLoadErrMsg{mode: mode, message: "Failed to read the selected file. Please choose another."}
		}
		return fileLoadedMsg{mode: mode, path: path, data: data}
	}
}

// fileLoadedMsg carries a picked file's contents back for staging.
type fileLoadedMsg struct {
	mode analysis.Mode
	path string
	data []byte
}

// fileLoadErrMsg reports a failed read of a picked file.
type fileLoadErrMsg struct {
	mode    analysis.Mode
	message string
}

// waitForEvidenceCmd blocks on the watcher channel for the next directory
// change. Update re-issues it after each event.
func waitForEvidenceCmd(events <-chan evidence.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		return evidenceEventMsg{event: event, ok: ok}
	}
}
