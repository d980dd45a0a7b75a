package image

// Option configures decoding and encoding.
type Option func(*options)

type options struct {
	linear  bool
	maxSize int
	quality int
}

func defaultOptions() options {
	return options{quality: 90}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLinear stores color samples in linear light. Decoding converts from
// sRGB and encoding converts back; alpha is never converted.
func WithLinear() Option {
	return func(o *options) {
		o.linear = true
	}
}

// WithMaxSize downsizes decoded images so that neither side exceeds n
// pixels. Zero disables resizing.
func WithMaxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// WithQuality sets the JPEG quality (1-100). Default: 90.
func WithQuality(q int) Option {
	return func(o *options) {
		o.quality = min(max(q, 1), 100)
	}
}
