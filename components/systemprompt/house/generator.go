// Package house generates the fixed tone and format contract every final
// answer must follow: warm, concise, medically accurate prose rendered with
// HTML-safe markup only.
package house

import (
	"fmt"
	"strings"

	"github.com/medassist/medichat/components/systemprompt"
)

// Generator is the house-style system prompt generator.
type Generator struct {
	systemprompt.BaseGenerator
	identity   []string
	guidelines []string
	formatting []string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	if len(ret.identity) == 0 {
		ret.identity = []string{
			"- You are a friendly and knowledgeable medical assistant chatbot.",
			"- Your goal is to provide helpful, accurate, and conversational responses to questions related to medical assistance.",
		}
	}
	if len(ret.guidelines) == 0 {
		ret.guidelines = []string{
			"- Be warm, conversational, and professional, like a caring medical assistant.",
			"- Use clear, medically accurate language with terms from the provided context when relevant.",
			"- Be concise and on-point; avoid overly long answers.",
			"- If unsure or the topic is beyond your expertise, be honest and suggest consulting a healthcare provider.",
			"- If the user asks about non-medical topics, gently guide them back to medical questions.",
		}
	}
	if len(ret.formatting) == 0 {
		ret.formatting = append(ret.formatting,
			"- Use simple HTML tags like <b>, <i>, <ul>, <li>, <br> for clarity.",
			"- Never emit unsafe HTML such as <script>, <iframe> or forms.",
			"- Lists of symptoms or steps should use <ul><li></li></ul>.",
			"- Do not use markdown; only HTML formatting.",
			"- Add emojis sparingly if it makes the response warmer, but keep it professional.",
		)
	}
	return ret
}

func (g *Generator) Generate() string {
	var (
		sections = []struct {
			title string
			lines []string
		}{
			{"IDENTITY and PURPOSE", g.identity},
			{"TONE and STYLE", g.guidelines},
			{"FORMATTING (for chat display)", g.formatting},
		}
		promptParts []string
	)
	for _, section := range sections {
		if len(section.lines) == 0 {
			continue
		}
		promptParts = append(promptParts, fmt.Sprintf("# %s", section.title))
		promptParts = append(promptParts, section.lines...)
		promptParts = append(promptParts, "")
	}
	if providers := g.ContextProviders(); len(providers) > 0 {
		promptParts = append(promptParts, "# EXTRA INFORMATION AND CONTEXT")
		for _, provider := range providers {
			if info := provider.Info(); info != "" {
				promptParts = append(promptParts, fmt.Sprintf("## %s", provider.Title()))
				promptParts = append(promptParts, info)
				promptParts = append(promptParts, "")
			}
		}
	}
	return strings.TrimSpace(strings.Join(promptParts, "\n"))
}
