package analysis

import (
	"strings"
)

// Field names each endpoint uses. Everything consumed here is lifted into the
// canonical brief; whatever remains is preserved verbatim under ModeSpecific.
var consumedFields = map[string]bool{
	"threat_level":        true,
	"confidence_score":    true,
	"explanation":         true,
	"summary":             true,
	"risk_reasoning":      true,
	"reply":               true,
	"detected_risks":      true,
	"detected_objects":    true,
	"recommended_actions": true,
	"actions":             true,
	"suggestions":         true,
	"urgent_help_needed":  true,
}

// Normalize maps a decoded analysis response into a canonical ThreatBrief.
// Field names vary per mode (detected_objects for image, sound_events for
// audio, hazards_seen for video, emotional_cues for text); the canonical
// fields are lifted out and the rest rides along in ModeSpecific.
func Normalize(mode Mode, raw map[string]any) ThreatBrief {
	brief := ThreatBrief{
		Mode:             mode,
		ThreatLevel:      ParseThreatLevel(stringField(raw, "threat_level")),
		Summary:          firstString(raw, "explanation", "summary", "risk_reasoning", "reply"),
		UrgentHelpNeeded: boolField(raw, "urgent_help_needed"),
	}

	// Confidence passes through only when the server sent a number in [0,1].
	// It is never fabricated here; the text-mode chat formatter synthesizes a
	// display-only value separately.
	if v, ok := floatField(raw, "confidence_score"); ok && v >= 0 && v <= 1 {
		c := v
		brief.Confidence = &c
	}

	// First non-empty of the explicit action field and its synonyms.
	for _, key := range []string{"recommended_actions", "actions", "suggestions"} {
		if actions := stringList(raw[key]); len(actions) > 0 {
			brief.RecommendedActions = actions
			break
		}
	}

	brief.DetectedRisks = stringList(raw["detected_risks"])
	if len(brief.DetectedRisks) == 0 {
		brief.DetectedRisks = stringList(raw["detected_objects"])
	}
	if len(brief.DetectedRisks) == 0 && brief.Summary != "" {
		brief.DetectedRisks = []string{brief.Summary}
	}

	for key, value := range raw {
		if consumedFields[key] {
			continue
		}
		if brief.ModeSpecific == nil {
			brief.ModeSpecific = make(map[string]any)
		}
		brief.ModeSpecific[key] = value
	}

	return brief
}

// NormalizeRoute maps a decoded safe-route response into a SafeRouteBrief.
func NormalizeRoute(raw map[string]any) SafeRouteBrief {
	return SafeRouteBrief{
		RouteLink:          stringField(raw, "route_link"),
		RouteDescription:   stringField(raw, "route_description"),
		SafeAreas:          stringList(raw["safe_areas"]),
		CautionAreas:       stringList(raw["caution_areas"]),
		UnsafeAreas:        stringList(raw["unsafe_areas"]),
		RecommendedActions: stringList(raw["recommended_actions"]),
		ThreatLevel:        ParseThreatLevel(stringField(raw, "threat_level")),
	}
}

// StringList coerces a ModeSpecific value back into a list of non-blank
// strings, for pass-through display of fields like hazards_seen.
func StringList(v any) []string {
	return stringList(v)
}

// FloatValue coerces a ModeSpecific value into a float, for fields like
// danger_probability.
func FloatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func stringField(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(raw, key); s != "" {
			return s
		}
	}
	return ""
}

func floatField(raw map[string]any, key string) (float64, bool) {
	return FloatValue(raw[key])
}

func boolField(raw map[string]any, key string) bool {
	b, _ := raw[key].(bool)
	return b
}

func stringList(v any) []string {
	var out []string
	switch list := v.(type) {
	case []string:
		for _, item := range list {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
