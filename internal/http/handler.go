package http

import (
	"context"
	"net/http"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// Options are shared by every handler.
type Options struct {
	Timeout time.Duration
	Logger  *logger.Logger
	// ExposeErrorDetails adds internal error causes to 500 responses.
	ExposeErrorDetails bool
}

type base struct {
	timeout time.Duration
	errs    errorResponder
}

func newBase(opts Options) base {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return base{
		timeout: opts.Timeout,
		errs:    errorResponder{log: opts.Logger, exposeDetails: opts.ExposeErrorDetails},
	}
}

func (b base) context(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), b.timeout)
}
