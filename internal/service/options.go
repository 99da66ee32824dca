package service

import (
	"time"

	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

type Option func(*options)

type options struct {
	clock     func() time.Time
	publisher EventPublisher
}

// WithClock replaces time.Now as the source of "today".
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithEventPublisher publishes an event after every committed change of an
// inspection.
func WithEventPublisher(publisher EventPublisher) Option {
	return func(o *options) {
		if publisher != nil {
			o.publisher = publisher
		}
	}
}

func newOptions(opts ...Option) options {
	o := options{clock: time.Now, publisher: noopPublisher{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// calendar resolves "today" in the configured timezone.
type calendar struct {
	clock func() time.Time
	loc   *time.Location
}

func newCalendar(cfg *config.SchedulingConfig, o options) calendar {
	return calendar{clock: o.clock, loc: cfg.Location()}
}

func (c calendar) Today() model.Date {
	return model.DateOf(c.clock().In(c.loc))
}
