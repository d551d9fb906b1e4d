package pool

import (
	"errors"
	"log/slog"

	"github.com/joshuapare/portpool/internal/logger"
	"github.com/joshuapare/portpool/pool/errorhandler"
	"github.com/joshuapare/portpool/pool/fixedlist"
	"github.com/joshuapare/portpool/pool/port"
)

// Option configures a PortPool or LegacyPortPool.
type Option func(*options)

type options struct {
	queueType port.QueueType
	log       *slog.Logger
}

func defaultOptions() options {
	return options{queueType: port.MultiProducer}
}

// WithSubscriberQueueType sets the queue type new subscribers get. The default
// is port.MultiProducer.
func WithSubscriberQueueType(q port.QueueType) Option {
	return func(o *options) { o.queueType = q }
}

// WithLogger sets the logger. The default is the process-wide logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// core is the state shared by both facades.
type core struct {
	data *PortPoolData
	opts options
}

func newCore(data *PortPoolData, opts []Option) core {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return core{data: data, opts: o}
}

func (c *core) logger() *slog.Logger {
	if c.opts.log != nil {
		return c.opts.log
	}
	return logger.L
}

// addRecord constructs a record at the back of l. On overflow it reports the
// kind's code to the error handler and returns the kind's PortPoolError.
func addRecord[T any](c *core, k Kind, l *fixedlist.List[T], init func(*T), registry bool) (*T, error) {
	rec, err := l.EmplaceBack(init)
	if err != nil {
		if !errors.Is(err, fixedlist.ErrFull) {
			return nil, err
		}
		perr := FullError(k)
		errorhandler.Report(perr.Code, errorhandler.Moderate)
		c.logger().Warn("port pool list full", "kind", k.String(), "capacity", l.Cap(), "code", perr.Code.String())
		return nil, perr
	}
	if registry {
		c.data.bumpChangeCounter()
	}
	return rec, nil
}

// removeRecord releases the slot rec points at. A pointer that is not in l
// is ignored.
func removeRecord[T any](c *core, k Kind, l *fixedlist.List[T], rec *T, registry bool) {
	if !l.RemovePtr(rec) {
		c.logger().Debug("remove of unknown record ignored", "kind", k.String())
		return
	}
	if registry {
		c.data.bumpChangeCounter()
	}
}

// snapshot returns the addresses of every record in l, front to back.
func snapshot[T any](l *fixedlist.List[T]) []*T {
	out := make([]*T, 0, l.Len())
	for rec := range l.All() {
		out = append(out, rec)
	}
	return out
}
