package fetch

import "errors"

var (
	// ErrNetwork is returned when the direct request fails outright,
	// either a transport error or a non-2xx status. The browser fallback
	// is not attempted for these.
	ErrNetwork = errors.New("network error")

	// ErrBypassFailed is returned when the rendered page still matches a
	// blocked-page selector. The caller gets no second attempt.
	ErrBypassFailed = errors.New("page still blocked after browser render")
)
