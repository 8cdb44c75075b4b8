package analysis

import (
	"strings"
	"testing"
)

func TestUserActionLine(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeImage, "Uploaded an image for analysis"},
		{ModeVideo, "Uploaded a video for analysis"},
		{ModeAudio, "Uploaded audio for analysis"},
		{ModeText, "Submitted text for analysis"},
	}

	for _, test := range tests {
		if got := UserActionLine(test.mode); got != test.expected {
			t.Errorf("UserActionLine(%s) = %q, expected %q", test.mode, got, test.expected)
		}
	}
}

func TestTextSummaryCriticalThreat(t *testing.T) {
	brief := Normalize(ModeText, map[string]any{
		"threat_level":        "critical",
		"explanation":         "Message indicates immediate danger.",
		"recommended_actions": []any{"Call emergency services", "Share your location"},
		"urgent_help_needed":  true,
	})

	out := TextSummary(brief)

	if !strings.Contains(out, "🔴 Threat Level: CRITICAL") {
		t.Errorf("Expected critical headline, got:\n%s", out)
	}
	if !strings.Contains(out, "Call emergency services") || !strings.Contains(out, "Share your location") {
		t.Errorf("Expected both recommended actions, got:\n%s", out)
	}
	if !strings.Contains(out, "⚠️ Urgent help recommended. Reach out to emergency contacts if you feel unsafe.") {
		t.Errorf("Expected urgent warning, got:\n%s", out)
	}
	if !strings.Contains(out, "Confidence: 80%") {
		t.Errorf("Expected synthesized 80%% confidence for critical, got:\n%s", out)
	}
}

func TestTextSummarySynthesizedConfidenceLowLevels(t *testing.T) {
	brief := Normalize(ModeText, map[string]any{"threat_level": "low"})

	out := TextSummary(brief)

	if !strings.Contains(out, "Confidence: 60%") {
		t.Errorf("Expected 60%% for non-high levels, got:\n%s", out)
	}
	if !strings.Contains(out, "Analysis complete.") {
		t.Errorf("Expected default explanation, got:\n%s", out)
	}
}

func TestTextSummaryServerConfidenceWins(t *testing.T) {
	brief := Normalize(ModeText, map[string]any{
		"threat_level":     "low",
		"confidence_score": 0.93,
	})

	if out := TextSummary(brief); !strings.Contains(out, "Confidence: 93%") {
		t.Errorf("Expected server-provided confidence, got:\n%s", out)
	}
}

func TestTextSummaryCapsRisksAndActions(t *testing.T) {
	brief := Normalize(ModeText, map[string]any{
		"threat_level":        "medium",
		"detected_risks":      []any{"a", "b", "c", "d"},
		"recommended_actions": []any{"w", "x", "y", "z"},
	})

	out := TextSummary(brief)

	if !strings.Contains(out, "Key risks: a, b, c") || strings.Contains(out, "Key risks: a, b, c, d") {
		t.Errorf("Expected risks capped at three, got:\n%s", out)
	}
	if strings.Contains(out, "- z") {
		t.Errorf("Expected actions capped at three, got:\n%s", out)
	}
}

func TestImageSummary(t *testing.T) {
	brief := Normalize(ModeImage, map[string]any{
		"threat_level":        "high",
		"detected_objects":    []any{"knife"},
		"explanation":         "A weapon is visible.",
		"recommended_actions": []any{"Leave the area"},
	})

	out := Summary(brief)

	if !strings.Contains(out, "🟠 Threat Level: HIGH") {
		t.Errorf("Expected high headline, got:\n%s", out)
	}
	if !strings.Contains(out, "Detected: knife") {
		t.Errorf("Expected detected line, got:\n%s", out)
	}
	if !strings.Contains(out, "• Leave the area") {
		t.Errorf("Expected bulleted action, got:\n%s", out)
	}
}

func TestImageSummaryWithoutDetectedObjects(t *testing.T) {
	brief := Normalize(ModeImage, map[string]any{
		"threat_level": "low",
		"explanation":  "Nothing concerning detected.",
	})

	out := Summary(brief)

	if !strings.Contains(out, "Detected: N/A") {
		t.Errorf("Expected N/A detected line, got:\n%s", out)
	}
	if strings.Count(out, "Nothing concerning detected.") != 1 {
		t.Errorf("Explanation should appear once, got:\n%s", out)
	}
}

func TestTextSummarySkipsFallbackRisks(t *testing.T) {
	brief := Normalize(ModeText, map[string]any{
		"threat_level": "medium",
		"explanation":  "Vague but concerning phrasing.",
	})

	out := TextSummary(brief)

	if strings.Contains(out, "Key risks:") {
		t.Errorf("Expected no risk line when the server sent none, got:\n%s", out)
	}
}

func TestVideoSummaryUsesModeSpecificFields(t *testing.T) {
	brief := Normalize(ModeVideo, map[string]any{
		"threat_level":      "medium",
		"hazards_seen":      []any{"traffic"},
		"people_detected":   []any{"two adults"},
		"movement_patterns": []any{"approaching"},
	})

	out := Summary(brief)

	if !strings.Contains(out, "Hazards: traffic") {
		t.Errorf("Expected hazards line, got:\n%s", out)
	}
	if !strings.Contains(out, "People Detected: two adults") {
		t.Errorf("Expected people line, got:\n%s", out)
	}
	if !strings.Contains(out, "Movement: approaching") {
		t.Errorf("Expected movement line, got:\n%s", out)
	}
}

func TestAudioSummaryFallbacks(t *testing.T) {
	brief := Normalize(ModeAudio, map[string]any{"threat_level": "low"})

	out := Summary(brief)

	if !strings.Contains(out, "Sound Events: N/A") {
		t.Errorf("Expected N/A sound events, got:\n%s", out)
	}
	if !strings.Contains(out, "Stay alert") {
		t.Errorf("Expected action fallback, got:\n%s", out)
	}
}

func TestThreatLevelEmoji(t *testing.T) {
	tests := []struct {
		level ThreatLevel
		emoji string
	}{
		{ThreatCritical, "🔴"},
		{ThreatHigh, "🟠"},
		{ThreatMedium, "🟡"},
		{ThreatLow, "🟢"},
		{ThreatUnknown, "⚪"},
	}

	for _, test := range tests {
		if got := test.level.Emoji(); got != test.emoji {
			t.Errorf("Emoji(%s) = %q, expected %q", test.level, got, test.emoji)
		}
	}
}
