package shell

type Option func(*options)

type options struct {
	cmd   string
	args  []string
	stdin []byte
	dir   string
	env   []string
}

func newOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func Command(c string) Option {
	return func(o *options) {
		o.cmd = c
	}
}

func Args(a ...string) Option {
	return func(o *options) {
		o.args = a
	}
}

func Stdin(s []byte) Option {
	return func(o *options) {
		o.stdin = s
	}
}

// Dir sets the working directory of the command.
func Dir(d string) Option {
	return func(o *options) {
		o.dir = d
	}
}

// Env adds `KEY=value` pairs to the environment inherited by the command.
func Env(e ...string) Option {
	return func(o *options) {
		o.env = append(o.env, e...)
	}
}
