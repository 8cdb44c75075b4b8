package tui

import (
	"github.com/HafizAtif90/ai-guardian/analysis"
	"github.com/HafizAtif90/ai-guardian/evidence"
	"github.com/HafizAtif90/ai-guardian/recorder"
)

// analysisResultMsg carries a successful analysis back to the event loop.
type analysisResultMsg struct {
	brief analysis.ThreatBrief
}

// analysisErrMsg carries a failed analysis. mode identifies which flight slot
// to release.
type analysisErrMsg struct {
	mode analysis.Mode
	err  error
}

// routeResultMsg carries a successful safe-route briefing.
type routeResultMsg struct {
	brief analysis.SafeRouteBrief
}

// routeErrMsg carries a failed location lookup or route request.
type routeErrMsg struct {
	err error
}

// recordingStoppedMsg carries a finished microphone capture.
type recordingStoppedMsg struct {
	clip recorder.Clip
	err  error
}

// evidenceListMsg refreshes a file picker listing.
type evidenceListMsg struct {
	mode  analysis.Mode
	files []evidence.File
	err   error
}

// evidenceEventMsg reports a change in the evidence directory.
type evidenceEventMsg struct {
	event evidence.Event
	ok    bool
}
