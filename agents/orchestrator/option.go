package orchestrator

import "github.com/medassist/medichat/tools"

type Option func(*Agent)

func WithClient(clt ChatCompleter) Option {
	return func(a *Agent) {
		a.client = clt
	}
}

func WithModel(model string) Option {
	return func(a *Agent) {
		a.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(a *Agent) {
		a.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(a *Agent) {
		a.maxTokens = maxTokens
	}
}

// WithInstructions overrides the default tool selection policy text.
func WithInstructions(instructions string) Option {
	return func(a *Agent) {
		a.instructions = instructions
	}
}

// WithTools attaches the agent's fixed tool set.
func WithTools(ts ...tools.Tool) Option {
	return func(a *Agent) {
		a.tools = append(a.tools, ts...)
	}
}

// WithMaxToolRounds caps how many times the model may request tool calls
// before the agent gives up.
func WithMaxToolRounds(rounds int) Option {
	return func(a *Agent) {
		a.maxToolRounds = rounds
	}
}

func WithName(name string) Option {
	return func(a *Agent) {
		a.name = name
	}
}
