package hl7v2

// Option configures parsing behavior.
type Option func(*Options)

// Options holds all configuration for the parsers.
type Options struct {
	// LenientNewlines accepts LF and CRLF segment terminators on input
	// in addition to the canonical CR.
	LenientNewlines bool

	// DecodeEscapes expands escape sequences in leaf values while
	// parsing. When disabled, leaves carry the raw wire text.
	DecodeEscapes bool

	// MaxMessageSize rejects inputs larger than this many bytes.
	// Zero means unlimited.
	MaxMessageSize int

	// Metrics, when set, records parse and encode statistics.
	Metrics *Metrics
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		LenientNewlines: true,
		DecodeEscapes:   true,
		MaxMessageSize:  0,
	}
}

// applyOptions builds an Options from defaults plus opts.
func applyOptions(opts []Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLenientNewlines controls acceptance of LF and CRLF terminators on
// input. Output is unaffected; canonical encoding always uses CR.
func WithLenientNewlines(enable bool) Option {
	return func(o *Options) {
		o.LenientNewlines = enable
	}
}

// WithEscapeDecoding controls escape-sequence expansion in leaf values.
func WithEscapeDecoding(enable bool) Option {
	return func(o *Options) {
		o.DecodeEscapes = enable
	}
}

// WithMaxMessageSize rejects inputs larger than n bytes. Use 0 for
// unlimited.
func WithMaxMessageSize(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.MaxMessageSize = n
		}
	}
}

// WithMetrics records parse and encode statistics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// --- Presets ---

// StrictOptions returns options for canonical-form input only: CR
// terminators, escapes decoded.
func StrictOptions() []Option {
	return []Option{
		WithLenientNewlines(false),
		WithEscapeDecoding(true),
	}
}

// LenientOptions returns options that accept any common line ending.
// This is the default behavior.
func LenientOptions() []Option {
	return []Option{
		WithLenientNewlines(true),
		WithEscapeDecoding(true),
	}
}
