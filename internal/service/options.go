package service

import (
	"github.com/CampiteliRafael/cartEcommerce/internal/events"
	"github.com/CampiteliRafael/cartEcommerce/internal/metrics"
	"github.com/CampiteliRafael/cartEcommerce/pkg/logger"
)

type options struct {
	log       *logger.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
}

type Option func(*options)

func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithPublisher(p events.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.NewNop()
	}
	if o.publisher == nil {
		o.publisher = events.NopPublisher{}
	}
	return o
}
