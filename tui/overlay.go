package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HafizAtif90/ai-guardian/analysis"
	"github.com/HafizAtif90/ai-guardian/orchestrator"
)

func (m Model) renderOverlay(overlay orchestrator.Overlay) string {
	var content string
	switch overlay.Kind {
	case orchestrator.OverlayThreat:
		content = m.renderThreatBrief(overlay.Threat)
	case orchestrator.OverlayRoute:
		if overlay.Loading {
			content = m.renderRouteLoading()
		} else {
			content = m.renderRouteBrief(overlay.Route)
		}
	}

	box := m.styles.overlay.Width(min(m.width-4, 72)).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderThreatBrief(brief *analysis.ThreatBrief) string {
	var b strings.Builder

	b.WriteString(m.styles.overlayHead.Render(fmt.Sprintf("%s Threat Level: %s",
		brief.ThreatLevel.Emoji(), strings.ToUpper(string(brief.ThreatLevel)))))
	b.WriteString("\n\n")

	if brief.Summary != "" {
		b.WriteString(brief.Summary)
	} else {
		b.WriteString("Analysis complete.")
	}
	b.WriteString("\n")

	if len(brief.DetectedRisks) > 0 {
		b.WriteString("\n" + m.styles.overlayHead.Render("Detected Risks") + "\n")
		for _, risk := range brief.DetectedRisks {
			b.WriteString("• " + risk + "\n")
		}
	}

	if len(brief.RecommendedActions) > 0 {
		b.WriteString("\n" + m.styles.overlayHead.Render("Recommended Actions") + "\n")
		for _, action := range brief.RecommendedActions {
			b.WriteString("• " + action + "\n")
		}
	}

	if brief.UrgentHelpNeeded {
		b.WriteString("\n" + m.styles.errorLine.Render("⚠️ Urgent help recommended. Reach out to emergency contacts if you feel unsafe.") + "\n")
	}

	if brief.Confidence != nil {
		b.WriteString(fmt.Sprintf("\nConfidence: %d%%\n", int(math.Round(*brief.Confidence*100))))
	}

	b.WriteString("\n" + m.styles.help.Render("esc: dismiss"))
	return b.String()
}

func (m Model) renderRouteLoading() string {
	if m.opts.ReducedMotion {
		return "Finding a safe route near you...\n\n" + m.styles.help.Render("esc: dismiss")
	}
	return m.spin.View() + " Finding a safe route near you...\n\n" + m.styles.help.Render("esc: dismiss")
}

func (m Model) renderRouteBrief(brief *analysis.SafeRouteBrief) string {
	var b strings.Builder

	b.WriteString(m.styles.overlayHead.Render("📍 Safe Route Briefing"))
	b.WriteString("\n\n")

	if brief.RouteDescription != "" {
		b.WriteString(brief.RouteDescription + "\n")
	}
	if brief.RouteLink != "" {
		b.WriteString(m.styles.muted.Render(brief.RouteLink) + "\n")
	}

	sections := []struct {
		title string
		items []string
	}{
		{"Safe Areas", brief.SafeAreas},
		{"Caution Zones", brief.CautionAreas},
		{"Avoid", brief.UnsafeAreas},
		{"Recommended Actions", brief.RecommendedActions},
	}
	for _, section := range sections {
		if len(section.items) == 0 {
			continue
		}
		b.WriteString("\n" + m.styles.overlayHead.Render(section.title) + "\n")
		for _, item := range section.items {
			b.WriteString("• " + item + "\n")
		}
	}

	if brief.ThreatLevel != analysis.ThreatUnknown {
		b.WriteString(fmt.Sprintf("\n%s Area threat level: %s\n",
			brief.ThreatLevel.Emoji(), strings.ToUpper(string(brief.ThreatLevel))))
	}

	b.WriteString("\n" + m.styles.help.Render("esc: dismiss"))
	return b.String()
}
