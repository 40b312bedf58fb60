package dynarray

import "go.uber.org/zap"

const (
	// DefaultCapacity is the initial capacity of a new array.
	DefaultCapacity = 4

	// DefaultIncrement is the number of slots added each time PushBack
	// finds the array full.
	DefaultIncrement = 4
)

type options struct {
	capacity  int
	increment int
	logger    *zap.Logger
}

// Option configures an Array at construction time.
type Option func(*options)

// WithCapacity sets the initial capacity. Zero creates the array without a
// backing store; the first PushBack allocates one.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.capacity = n
		}
	}
}

// WithIncrement sets the fixed growth step used by PushBack.
func WithIncrement(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.increment = n
		}
	}
}

// WithLogger sets the logger used for growth and allocation failure events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func defaultOptions() options {
	return options{
		capacity:  DefaultCapacity,
		increment: DefaultIncrement,
		logger:    zap.NewNop(),
	}
}
