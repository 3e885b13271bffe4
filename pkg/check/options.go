package check

import "io"

type options struct {
	diag io.Writer
}

type Option func(opts *options)

func makeOptions(opts ...Option) *options {
	res := &options{
		diag: io.Discard,
	}

	for _, o := range opts {
		o(res)
	}

	return res
}

// WithDiagnostics directs per-component and per-signature diagnostic lines to
// w. The sink is a pure observer; it never influences the check.
func WithDiagnostics(w io.Writer) Option {
	return func(o *options) {
		o.diag = w
	}
}
