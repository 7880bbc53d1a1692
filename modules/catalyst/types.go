package catalyst

// GenerateRequest represents a catalyst generation request. TaskTitle is
// required; the other fields are included in the prompt only when present.
type GenerateRequest struct {
	TaskTitle       string   `json:"task_title"`
	TaskDescription string   `json:"task_description,omitempty"`
	Category        string   `json:"category,omitempty"`
	Priority        string   `json:"priority,omitempty"`
	Interests       []string `json:"interests,omitempty"`
}

// Result is a generated catalyst. Content is always non-empty and
// EstimatedMinutes is always within [1,5].
type Result struct {
	Content          string   `json:"content"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	RelevanceScore   int      `json:"relevance_score"`
	MatchedInterests []string `json:"matched_interests,omitempty"`
}
