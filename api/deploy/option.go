package deploy

// ErrorPolicy decides what the executor does once a node task fails.
type ErrorPolicy int

const (
	// OnErrorAbort finishes the failing batch, skips the remaining batches and
	// returns the first error.
	OnErrorAbort ErrorPolicy = iota

	// OnErrorContinue runs every batch and returns all node errors together.
	OnErrorContinue
)

type Option func(*options)

type options struct {
	parallel  int
	onError   ErrorPolicy
	batchHook func(int, int)
}

func newOptions(opts ...Option) options {
	o := options{parallel: 4}

	for _, opt := range opts {
		opt(&o)
	}

	if o.parallel < 1 {
		o.parallel = 1
	}

	return o
}

// Parallel sets the batch size, which is also the maximum number of node tasks
// in flight at once.
func Parallel(p int) Option {
	return func(o *options) {
		o.parallel = p
	}
}

func OnError(p ErrorPolicy) Option {
	return func(o *options) {
		o.onError = p
	}
}

// WithBatchHook registers a function called with the batch index and size
// before each batch is started.
func WithBatchHook(fn func(batch, size int)) Option {
	return func(o *options) {
		o.batchHook = fn
	}
}
