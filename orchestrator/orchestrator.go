// Package orchestrator coordinates submissions, the shared transcript, and
// the single active overlay. All methods are synchronous state transitions
// driven from the event loop; network work happens elsewhere and reports back
// through Finish/Fail calls.
package orchestrator

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/HafizAtif90/ai-guardian/analysis"
	"github.com/HafizAtif90/ai-guardian/chat"
	"github.com/HafizAtif90/ai-guardian/geo"
	"github.com/HafizAtif90/ai-guardian/submit"
)

// OverlayKind names what the single overlay slot is showing.
type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlayThreat
	OverlayRoute
)

// Overlay is the single modal slot. At most one overlay is visible; opening
// one closes whatever was shown before.
type Overlay struct {
	Kind    OverlayKind
	Loading bool
	Threat  *analysis.ThreatBrief
	Route   *analysis.SafeRouteBrief
}

// Controller owns the per-mode submitters, the transcript, and the overlay.
type Controller struct {
	session    *chat.Session
	submitters map[analysis.Mode]*submit.Submitter
	overlay    Overlay
	routing    bool
	logger     *zap.Logger
}

// New creates a Controller around the given transcript.
func New(session *chat.Session, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	submitters := make(map[analysis.Mode]*submit.Submitter, 4)
	for _, mode := range []analysis.Mode{analysis.ModeImage, analysis.ModeVideo, analysis.ModeAudio, analysis.ModeText} {
		submitters[mode] = submit.New(mode)
	}
	return &Controller{
		session:    session,
		submitters: submitters,
		logger:     logger,
	}
}

// Session returns the shared transcript.
func (c *Controller) Session() *chat.Session {
	return c.session
}

// Submitter returns the submitter for a mode.
func (c *Controller) Submitter(mode analysis.Mode) *submit.Submitter {
	return c.submitters[mode]
}

// Overlay returns the current overlay state.
func (c *Controller) Overlay() Overlay {
	return c.overlay
}

// Busy reports whether any mode or the route flow has a request in flight.
func (c *Controller) Busy(mode analysis.Mode) bool {
	return c.submitters[mode].State() == submit.Pending
}

// BeginAnalysis starts a submission for a mode: it claims the single flight
// slot and appends the user action line. The returned payload is what the
// caller must send.
func (c *Controller) BeginAnalysis(mode analysis.Mode) (*submit.Payload, error) {
	payload, err := c.submitters[mode].Begin()
	if err != nil {
		return nil, err
	}

	c.session.Append(chat.RoleUser, analysis.UserActionLine(mode))
	c.logger.Info("analysis started", zap.String("mode", mode.String()))
	return payload, nil
}

// FinishAnalysis lands a successful result: the condensed summary joins the
// transcript and the full brief takes over the overlay slot.
func (c *Controller) FinishAnalysis(brief analysis.ThreatBrief) {
	c.submitters[brief.Mode].Complete()
	c.session.Append(chat.RoleAssistant, analysis.Summary(brief))

	b := brief
	c.overlay = Overlay{Kind: OverlayThreat, Threat: &b}
	c.logger.Info("analysis finished",
		zap.String("mode", brief.Mode.String()),
		zap.String("threat_level", string(brief.ThreatLevel)))
}

// FailAnalysis lands a failed submission. The payload stays staged for retry.
// Text mode failures surface in the transcript; upload modes report the
// message back for inline display in their view.
func (c *Controller) FailAnalysis(mode analysis.Mode, err error) string {
	c.submitters[mode].Fail()
	c.logger.Warn("analysis failed", zap.String("mode", mode.String()), zap.Error(err))

	message := err.Error()
	if mode == analysis.ModeText {
		c.session.Append(chat.RoleAssistant, "⚠️ "+message)
	}
	return message
}

// BeginRoute starts the safe-route flow: it rejects a concurrent request,
// appends the location line, and opens the route overlay in its loading state
// before the position is even resolved.
func (c *Controller) BeginRoute() error {
	if c.routing {
		return errors.New("a route request is already in progress")
	}

	c.routing = true
	c.session.Append(chat.RoleUser, analysis.LocationSharedLine)
	c.overlay = Overlay{Kind: OverlayRoute, Loading: true}
	c.logger.Info("route request started")
	return nil
}

// FinishRoute lands a successful route briefing in the overlay and confirms
// it in the transcript.
func (c *Controller) FinishRoute(brief analysis.SafeRouteBrief) {
	c.routing = false
	b := brief
	c.overlay = Overlay{Kind: OverlayRoute, Route: &b}
	c.session.Append(chat.RoleAssistant, analysis.RouteConfirmation)
	c.logger.Info("route request finished", zap.String("threat_level", string(brief.ThreatLevel)))
}

// FailRoute lands a failed route flow. The overlay closes and the transcript
// explains what went wrong: location failures speak in their own words,
// service failures are wrapped in the route phrasing.
func (c *Controller) FailRoute(err error) {
	c.routing = false
	if c.overlay.Kind == OverlayRoute {
		c.overlay = Overlay{}
	}
	c.logger.Warn("route request failed", zap.Error(err))

	c.session.Append(chat.RoleAssistant, routeFailureMessage(err))
}

func routeFailureMessage(err error) string {
	var geoErr *geo.Error
	if errors.As(err, &geoErr) {
		return geoErr.Error()
	}
	var reqErr *analysis.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("Could not analyze your route: %s", reqErr.Message)
	}
	if err != nil {
		return fmt.Sprintf("Could not analyze your route: %s", err.Error())
	}
	return "Could not analyze your route. Please try again."
}

// RoutePending reports whether a route request is in flight.
func (c *Controller) RoutePending() bool {
	return c.routing
}

// DismissOverlay clears whatever the overlay slot is showing. The transcript
// keeps its record of the result.
func (c *Controller) DismissOverlay() {
	c.overlay = Overlay{}
}
