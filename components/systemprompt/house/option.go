package house

import "github.com/medassist/medichat/components/systemprompt"

type Option func(*Generator)

func WithIdentity(lines []string) Option {
	return func(g *Generator) {
		g.identity = lines
	}
}

func WithGuidelines(lines []string) Option {
	return func(g *Generator) {
		g.guidelines = lines
	}
}

func WithFormatting(lines []string) Option {
	return func(g *Generator) {
		g.formatting = lines
	}
}

func WithContextProviders(providers ...systemprompt.ContextProvider) Option {
	return func(g *Generator) {
		g.AddContextProviders(providers...)
	}
}
