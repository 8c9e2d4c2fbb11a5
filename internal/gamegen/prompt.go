package gamegen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a culinary instructor designing a short, timed cooking quiz.

Rules:
- Every step must be about the given recipe and be answerable by a home cook.
- Use three kinds of step: "selection" (pick the right technique, tool or ingredient), "sequence" (put ingredients or actions in order) and "temperature" (pick the right heat or doneness temperature for a scenario).
- Selection and temperature steps have between 2 and 6 options with exactly one marked correct. Distractors should be plausible mistakes.
- Sequence steps list between 2 and 8 ingredients; correct_order lists every ingredient id exactly once.
- Ids are short lowercase words joined by hyphens and unique within their step.
- Temperatures are given in Fahrenheit with Celsius in parentheses, e.g. "165F (74C)".
- Keep prompts under 200 characters and labels under 60 characters.
- Leave arrays a step kind does not use empty.`

// buildUserMessage describes the requested game and, on a retry, the
// reason the previous attempt was rejected.
func buildUserMessage(input GenerateInput, lastErr *ValidationError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Recipe: %s\n", input.Recipe)
	if len(input.Ingredients) > 0 {
		fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(input.Ingredients, ", "))
	}
	if input.Steps > 0 {
		fmt.Fprintf(&b, "Steps: exactly %d\n", input.Steps)
	} else {
		fmt.Fprintf(&b, "Steps: between %d and %d\n", MinSteps, MaxSteps)
	}
	b.WriteString("Include at least one sequence step and one temperature step when the recipe allows it.\n")

	if lastErr != nil {
		b.WriteString("\nYour previous answer was rejected:\n")
		b.WriteString(lastErr.Message)
		b.WriteString("\nFix this problem in the new game.")
	}

	return strings.TrimRight(b.String(), "\n")
}
