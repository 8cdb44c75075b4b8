package analysis

import (
	"fmt"
	"math"
	"strings"
)

// RouteConfirmation is the assistant entry appended after a successful
// safe-route resolution.
const RouteConfirmation = "📍 I found guidance for your area. Review the safe-route panel for turn-by-turn advice and caution zones."

// LocationSharedLine is the user entry appended when a route request starts.
const LocationSharedLine = "📍 Shared my location"

// UserActionLine is the synthetic "what the user did" chat entry appended
// when a submission starts, before the network call resolves.
func UserActionLine(mode Mode) string {
	switch mode {
	case ModeImage:
		return "Uploaded an image for analysis"
	case ModeVideo:
		return "Uploaded a video for analysis"
	case ModeAudio:
		return "Uploaded audio for analysis"
	}
	return "Submitted text for analysis"
}

// Summary renders the brief assistant chat entry for a normalized result.
// The overlay shows the full structured brief; the transcript gets this
// condensed per-mode digest.
func Summary(brief ThreatBrief) string {
	switch brief.Mode {
	case ModeImage:
		return imageSummary(brief)
	case ModeVideo:
		return videoSummary(brief)
	case ModeAudio:
		return audioSummary(brief)
	}
	return TextSummary(brief)
}

func imageSummary(brief ThreatBrief) string {
	return fmt.Sprintf("%s Threat Level: %s\n\nDetected: %s\n\n%s\n\nRecommended Actions:\n%s",
		brief.ThreatLevel.Emoji(),
		strings.ToUpper(string(brief.ThreatLevel)),
		joinOr(explicitRisks(brief), "N/A"),
		summaryOr(brief.Summary),
		bulletsOr(brief.RecommendedActions, "Stay alert"))
}

func videoSummary(brief ThreatBrief) string {
	return fmt.Sprintf("%s Threat Level: %s\n\nHazards: %s\nPeople Detected: %s\nMovement: %s\n\n%s\n\nActions:\n%s",
		brief.ThreatLevel.Emoji(),
		strings.ToUpper(string(brief.ThreatLevel)),
		joinOr(StringList(brief.ModeSpecific["hazards_seen"]), "N/A"),
		joinOr(StringList(brief.ModeSpecific["people_detected"]), "N/A"),
		joinOr(StringList(brief.ModeSpecific["movement_patterns"]), "N/A"),
		summaryOr(brief.Summary),
		bulletsOr(brief.RecommendedActions, "Stay alert"))
}

func audioSummary(brief ThreatBrief) string {
	return fmt.Sprintf("%s Threat Level: %s\n\nSound Events: %s\n\n%s\n\nActions:\n%s",
		brief.ThreatLevel.Emoji(),
		strings.ToUpper(string(brief.ThreatLevel)),
		joinOr(StringList(brief.ModeSpecific["sound_events"]), "N/A"),
		summaryOr(brief.Summary),
		bulletsOr(brief.RecommendedActions, "Stay alert"))
}

// TextSummary renders the text-analysis digest: threat level headline,
// explanation, up to three risks and actions, the urgent-help warning, and a
// confidence line. When the server omitted a confidence score, a coarse
// display-only value is synthesized (0.8 for high/critical, 0.6 otherwise);
// the stored brief keeps Confidence nil.
func TextSummary(brief ThreatBrief) string {
	sections := []string{
		fmt.Sprintf("%s Threat Level: %s", brief.ThreatLevel.Emoji(), strings.ToUpper(string(brief.ThreatLevel))),
		summaryOr(brief.Summary),
	}

	if risks := explicitRisks(brief); len(risks) > 0 {
		sections = append(sections, "Key risks: "+strings.Join(capList(risks, 3), ", "))
	}

	if actions := brief.RecommendedActions; len(actions) > 0 {
		sections = append(sections, "Recommended actions:\n- "+strings.Join(capList(actions, 3), "\n- "))
	}

	if brief.UrgentHelpNeeded {
		sections = append(sections, "⚠️ Urgent help recommended. Reach out to emergency contacts if you feel unsafe.")
	}

	confidence := displayConfidence(brief)
	sections = append(sections, fmt.Sprintf("Confidence: %d%%", int(math.Round(confidence*100))))

	return strings.Join(sections, "\n\n")
}

func displayConfidence(brief ThreatBrief) float64 {
	if brief.Confidence != nil {
		return *brief.Confidence
	}
	if brief.ThreatLevel == ThreatHigh || brief.ThreatLevel == ThreatCritical {
		return 0.8
	}
	return 0.6
}

// explicitRisks returns the server-reported risks. When normalization fell
// back to the summary, the transcript prints the explanation already, so the
// risk line shows its fallback instead of repeating it.
func explicitRisks(brief ThreatBrief) []string {
	if len(brief.DetectedRisks) == 1 && brief.DetectedRisks[0] == brief.Summary {
		return nil
	}
	return brief.DetectedRisks
}

func summaryOr(s string) string {
	if s == "" {
		return "Analysis complete."
	}
	return s
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func bulletsOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return "• " + strings.Join(items, "\n• ")
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
