package analysis

import "strings"

// Mode identifies one of the four evidence channels.
type Mode string

const (
	ModeImage Mode = "image"
	ModeVideo Mode = "video"
	ModeAudio Mode = "audio"
	ModeText  Mode = "text"
)

// Modes lists every evidence channel in display order.
var Modes = []Mode{ModeImage, ModeVideo, ModeAudio, ModeText}

// Valid reports whether m names a known evidence channel.
func (m Mode) Valid() bool {
	switch m {
	case ModeImage, ModeVideo, ModeAudio, ModeText:
		return true
	}
	return false
}

func (m Mode) String() string {
	return string(m)
}

// Title returns the display name the mode carries in the UI.
func (m Mode) Title() string {
	switch m {
	case ModeImage:
		return "Image Scan"
	case ModeVideo:
		return "Video Review"
	case ModeAudio:
		return "Audio Insight"
	case ModeText:
		return "Text Analysis"
	}
	return string(m)
}

// ThreatLevel is the five-value severity scale every analysis endpoint uses.
type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
	ThreatUnknown  ThreatLevel = "unknown"
)

// ParseThreatLevel matches s against the five-value scale case-insensitively.
// Anything missing or unrecognized maps to ThreatUnknown.
func ParseThreatLevel(s string) ThreatLevel {
	switch l := ThreatLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case ThreatLow, ThreatMedium, ThreatHigh, ThreatCritical:
		return l
	}
	return ThreatUnknown
}

// Emoji returns the severity marker used in chat summaries and overlays.
func (l ThreatLevel) Emoji() string {
	switch l {
	case ThreatCritical:
		return "🔴"
	case ThreatHigh:
		return "🟠"
	case ThreatMedium:
		return "🟡"
	case ThreatLow:
		return "🟢"
	}
	return "⚪"
}

// ThreatBrief is the canonical normalized analysis result. One brief is built
// per completed analysis call and fully replaces the previous one shown in
// the overlay; it is never mutated after normalization.
type ThreatBrief struct {
	Mode               Mode           `json:"mode"`
	ThreatLevel        ThreatLevel    `json:"threat_level"`
	Confidence         *float64       `json:"confidence,omitempty"`
	Summary            string         `json:"summary"`
	DetectedRisks      []string       `json:"detected_risks"`
	RecommendedActions []string       `json:"recommended_actions"`
	UrgentHelpNeeded   bool           `json:"urgent_help_needed"`
	ModeSpecific       map[string]any `json:"mode_specific,omitempty"`
}

// SafeRouteBrief is the normalized safe-route briefing shown in the route
// overlay. It is cleared when the overlay closes.
type SafeRouteBrief struct {
	RouteLink          string      `json:"route_link,omitempty"`
	RouteDescription   string      `json:"route_description"`
	SafeAreas          []string    `json:"safe_areas"`
	CautionAreas       []string    `json:"caution_areas"`
	UnsafeAreas        []string    `json:"unsafe_areas"`
	RecommendedActions []string    `json:"recommended_actions"`
	ThreatLevel        ThreatLevel `json:"threat_level"`
}

// Location is the coordinate pair the safe-route endpoint consumes.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
