package captcha

import (
	"errors"

	"github.com/nsoz/arrowcaptcha/captcha/render"
	"github.com/nsoz/arrowcaptcha/captcha/session"
)

var (
	// ErrInvalidZoom is returned by Generate for a zoom level outside the
	// accepted range. Any existing session is left untouched.
	ErrInvalidZoom = render.ErrInvalidZoom
	// ErrDisposed is returned by resource accessors on an already
	// disposed challenge. Callers treat it as "absent".
	ErrDisposed = session.ErrDisposed
	// ErrEncodingFailed signals a missing or broken image-encoding
	// backend. It is a configuration-level failure, not retried.
	ErrEncodingFailed = render.ErrEncodingFailed
	// ErrGenerationFailed wraps any unexpected failure during the
	// synthesis pipeline. The store holds no session for the identifier
	// afterwards; the host may retry Generate.
	ErrGenerationFailed = errors.New("challenge generation failed")
)
