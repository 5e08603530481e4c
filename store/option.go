package store

import "time"

// Option is a function that configures options for a store. It is used in
// `store.Init`.
type Option func(*Options)

type Options struct {
	Endpoint string

	// Timeout bounds how long Init waits for the file lock held by another
	// process using the same store.
	Timeout time.Duration
}

func NewOptions(opts ...Option) Options {
	o := Options{Timeout: 5 * time.Second}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Endpoint sets the endpoint URI to use for the store.
func Endpoint(e string) Option {
	return func(o *Options) {
		o.Endpoint = e
	}
}

// Path is shorthand for a `bolt://` endpoint at the given file path.
func Path(p string) Option {
	return func(o *Options) {
		o.Endpoint = "bolt://" + p
	}
}

func Timeout(t time.Duration) Option {
	return func(o *Options) {
		o.Timeout = t
	}
}
