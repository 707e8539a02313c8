package browser

import (
	"context"
	"encoding/base64"
	"strings"
	"sync/atomic"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/kasumi/internal/logging"
)

// Decision is the outcome of the interception policy for one paused
// request.
type Decision int

const (
	// DecisionContinue lets the request through untouched.
	DecisionContinue Decision = iota
	// DecisionAbort kills the request before it leaves the browser.
	DecisionAbort
	// DecisionFulfill answers the request from the cached payload.
	DecisionFulfill
)

func (d Decision) String() string {
	switch d {
	case DecisionAbort:
		return "abort"
	case DecisionFulfill:
		return "fulfill"
	default:
		return "continue"
	}
}

// attemptState carries the cached payload for a single render attempt.
// consumed flips exactly once, so at most one document request is served
// from the payload no matter how event deliveries race.
type attemptState struct {
	payload  []byte
	consumed atomic.Bool
}

// abortedTypes lists the resource classes a render never needs.
var abortedTypes = map[network.ResourceType]struct{}{
	network.ResourceTypeImage:      {},
	network.ResourceTypeStylesheet: {},
	network.ResourceTypeMedia:      {},
	network.ResourceTypeFont:       {},
	network.ResourceTypePing:       {},
	network.ResourceTypeManifest:   {},
}

// decide applies the interception policy to one paused request. The .ico
// check runs before the type rules; favicons usually arrive typed as
// images and would otherwise be aborted with them.
func decide(url string, resourceType network.ResourceType, st *attemptState) Decision {
	if strings.HasSuffix(url, ".ico") {
		return DecisionContinue
	}
	if _, drop := abortedTypes[resourceType]; drop {
		return DecisionAbort
	}
	if resourceType == network.ResourceTypeDocument &&
		st.payload != nil &&
		st.consumed.CompareAndSwap(false, true) {
		return DecisionFulfill
	}
	return DecisionContinue
}

// intercept installs the policy on the tab for one render attempt. The
// returned stop function detaches the listener; dispatches already in
// flight finish against the tab's own context and die with the tab at the
// latest.
func (t *Tab) intercept(st *attemptState, logger logging.Logger) (stop func()) {
	lctx, cancel := context.WithCancel(t.ctx)

	c := chromedp.FromContext(t.ctx)
	ectx := cdp.WithExecutor(t.ctx, c.Target)

	chromedp.ListenTarget(lctx, func(ev interface{}) {
		pause, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go dispatch(ectx, pause, st, logger)
	})

	return cancel
}

// dispatch resolves one paused request. Errors are logged at debug level
// only; a request paused right before the tab navigates away routinely
// fails to resolve and the browser discards it with the old page.
func dispatch(ctx context.Context, ev *fetch.EventRequestPaused, st *attemptState, logger logging.Logger) {
	switch decide(ev.Request.URL, ev.ResourceType, st) {
	case DecisionAbort:
		if err := fetch.FailRequest(ev.RequestID, network.ErrorReasonAborted).Do(ctx); err != nil {
			logger.Debug("abort request failed",
				logging.Field{Key: "url", Value: ev.Request.URL},
				logging.Field{Key: "error", Value: err.Error()})
		}
	case DecisionFulfill:
		logger.Debug("fulfilling document request with cached payload",
			logging.Field{Key: "url", Value: ev.Request.URL})
		fulfill := fetch.FulfillRequest(ev.RequestID, 200).
			WithResponseHeaders([]*fetch.HeaderEntry{{Name: "Content-Type", Value: "text/html"}}).
			WithBody(base64.StdEncoding.EncodeToString(st.payload))
		if err := fulfill.Do(ctx); err != nil {
			logger.Debug("fulfill from cached payload failed",
				logging.Field{Key: "url", Value: ev.Request.URL},
				logging.Field{Key: "error", Value: err.Error()})
		}
	default:
		if err := fetch.ContinueRequest(ev.RequestID).Do(ctx); err != nil {
			logger.Debug("continue request failed",
				logging.Field{Key: "url", Value: ev.Request.URL},
				logging.Field{Key: "error", Value: err.Error()})
		}
	}
}
