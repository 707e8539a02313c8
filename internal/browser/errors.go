package browser

import "errors"

var (
	// ErrNavigation is returned when the fallback navigation or the final
	// DOM capture fails.
	ErrNavigation = errors.New("navigation failed")

	// ErrNavigationTimeout is returned when the awaited element did not
	// show up within the configured wait timeout.
	ErrNavigationTimeout = errors.New("timed out waiting for element")

	// ErrPoolTimeout is returned when a bounded wait for a free tab
	// elapses. Unbounded pools never return it.
	ErrPoolTimeout = errors.New("timed out waiting for a free tab")

	// ErrPoolClosed is returned for acquisitions after shutdown began.
	ErrPoolClosed = errors.New("tab pool is closed")
)
