package pipeline

import "strings"

// composeInstruction is the fixed part of every compose prompt. User input
// only ever appends to it, never replaces it.
const composeInstruction = "Preserve the model's pose, expression and clothing, and replace the product naturally."

// BuildComposePrompt joins the fixed instruction with an optional user
// suffix. The suffix is trimmed first; when empty it is omitted entirely so
// the prompt carries no trailing space.
func BuildComposePrompt(suffix string) string {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return composeInstruction
	}
	return composeInstruction + " " + suffix
}
