package engine

// SuggestFunc derives query suggestions from the merged result list.
// Strategies are pluggable so ranking can change without touching the
// aggregator.
type SuggestFunc func(results []Result) []string

// maxSuggestions caps the default strategy's output.
const maxSuggestions = 5

// FirstTitles is the default suggestion strategy: the titles of the first
// five results, deduplicated with insertion order preserved. Fewer than
// five come back when titles repeat or are empty.
func FirstTitles(results []Result) []string {
	if len(results) > maxSuggestions {
		results = results[:maxSuggestions]
	}

	suggestions := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, res := range results {
		if res.Title == "" || seen[res.Title] {
			continue
		}
		seen[res.Title] = true
		suggestions = append(suggestions, res.Title)
	}
	return suggestions
}
