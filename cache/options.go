package cache

import (
	"time"
)

// Option configures a cache backend.
type Option func(*Options)

// Options holds cache backend configuration.
type Options struct {
	URI    string
	Name   string
	MaxAge time.Duration
}

// WithURI sets the connection uri of the backend, e.g. redis://host:6379/0.
func WithURI(uri string) Option {
	return func(o *Options) {
		o.URI = uri
	}
}

func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithMaxAge returns an Option to configure the max age of the cache.
func WithMaxAge(maxAge time.Duration) Option {
	return func(o *Options) {
		o.MaxAge = maxAge
	}
}

// NewOptions applies opts over the defaults shared by all backends.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Name:   "default",
		MaxAge: time.Hour,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
