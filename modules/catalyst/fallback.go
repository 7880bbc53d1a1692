package catalyst

import "strings"

// fallbackTemplate maps a keyword group to a fixed catalyst. The table is
// evaluated in order, first match wins, so the ordering is part of the
// contract and covered by tests.
type fallbackTemplate struct {
	keywords []string
	content  string
	minutes  int
}

var fallbackTemplates = []fallbackTemplate{
	{
		keywords: []string{"write", "report", "document", "essay", "blog"},
		content:  "Open a blank document and write just the title and today's date",
		minutes:  2,
	},
	{
		keywords: []string{"study", "learn", "read", "research"},
		content:  "Find your study materials and open to the first relevant page",
		minutes:  3,
	},
	{
		keywords: []string{"organize", "clean", "sort", "declutter"},
		content:  "Set a 5-minute timer and gather all related items in one place",
		minutes:  5,
	},
	{
		keywords: []string{"call", "phone", "contact"},
		content:  "Find the contact number and save it to your phone favorites",
		minutes:  2,
	},
	{
		keywords: []string{"email", "message", "send"},
		content:  "Open your email app and write just the subject line",
		minutes:  1,
	},
	{
		keywords: []string{"exercise", "workout", "gym", "run"},
		content:  "Put on your workout clothes and set them aside",
		minutes:  3,
	},
	{
		keywords: []string{"cook", "meal", "recipe"},
		content:  "Find the recipe and lay out just one ingredient",
		minutes:  2,
	},
}

// defaultFallback is returned when no keyword group matches the title.
var defaultFallback = Result{
	Content:          "Set a 5-minute timer and take the very first small step",
	EstimatedMinutes: 5,
}

// Fallback returns a deterministic catalyst for the given task title
// without any I/O. It lower-cases the title and tests it against the
// ordered keyword groups; the first group with any matching keyword wins.
func Fallback(taskTitle string) Result {
	taskLower := strings.ToLower(taskTitle)

	for _, tmpl := range fallbackTemplates {
		for _, keyword := range tmpl.keywords {
			if strings.Contains(taskLower, keyword) {
				return Result{
					Content:          tmpl.content,
					EstimatedMinutes: tmpl.minutes,
				}
			}
		}
	}

	return defaultFallback
}
