package llm

import "strings"

// EstimateTokens gives a rough token count from the word count. Only used for
// logging prompt sizes.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	// Roughly 0.75 words per token for English prose.
	return max(int(float64(words)*1.33), 1)
}
