package tools

import "context"

type Option func(c *Config)

func WithName(name string) Option {
	return func(c *Config) {
		c.SetName(name)
	}
}

func WithDescription(desc string) Option {
	return func(c *Config) {
		c.SetDescription(desc)
	}
}

func WithStartHook(fn func(ctx context.Context, name, arguments string)) Option {
	return func(c *Config) {
		c.startHook = fn
	}
}

func WithEndHook(fn func(ctx context.Context, name, arguments, result string)) Option {
	return func(c *Config) {
		c.endHook = fn
	}
}

func WithErrorHook(fn func(ctx context.Context, name, arguments string, err error)) Option {
	return func(c *Config) {
		c.errorHook = fn
	}
}
