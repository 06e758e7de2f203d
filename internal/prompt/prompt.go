// Package prompt builds the ordered text blocks sent to a transformation provider.
package prompt

import "strings"

const (
	// InputPlaceholder is replaced with the source text in a user prompt.
	InputPlaceholder = "{{text}}"

	// LegacyInputPlaceholder is the older spelling, still honored.
	LegacyInputPlaceholder = "{{input}}"

	systemBlockPrefix = "System Prompt:\n"
)

// Input carries the preset prompts and the text to transform.
type Input struct {
	SourceText   string
	SystemPrompt string
	UserPrompt   string
}

// BuildPromptBlocks returns the system block (when present) followed by the
// user block. A blank user prompt yields the source text verbatim.
func BuildPromptBlocks(in Input) []string {
	blocks := make([]string, 0, 2)

	if strings.TrimSpace(in.SystemPrompt) != "" {
		blocks = append(blocks, systemBlockPrefix+in.SystemPrompt)
	}

	if strings.TrimSpace(in.UserPrompt) == "" {
		return append(blocks, in.SourceText)
	}

	replacer := strings.NewReplacer(
		InputPlaceholder, in.SourceText,
		LegacyInputPlaceholder, in.SourceText,
	)
	return append(blocks, replacer.Replace(in.UserPrompt))
}
