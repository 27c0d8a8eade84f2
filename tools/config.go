package tools

import "context"

// Config holds the identity and hooks shared by all tools.
type Config struct {
	// name is the function name the model calls the tool by
	name string
	// description tells the model when the tool should be used
	description string
	startHook   func(ctx context.Context, name, arguments string)
	endHook     func(ctx context.Context, name, arguments, result string)
	errorHook   func(ctx context.Context, name, arguments string, err error)
}

func (c *Config) SetName(v string) {
	c.name = v
}

func (c Config) Name() string {
	return c.name
}

func (c *Config) SetDescription(v string) {
	c.description = v
}

func (c Config) Description() string {
	return c.description
}

func (c Config) OnStart(ctx context.Context, arguments string) {
	if c.startHook != nil {
		c.startHook(ctx, c.name, arguments)
	}
}

func (c Config) OnEnd(ctx context.Context, arguments, result string) {
	if c.endHook != nil {
		c.endHook(ctx, c.name, arguments, result)
	}
}

func (c Config) OnError(ctx context.Context, arguments string, err error) {
	if c.errorHook != nil {
		c.errorHook(ctx, c.name, arguments, err)
	}
}
