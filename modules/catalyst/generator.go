package catalyst

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
)

// DefaultContent substitutes for an empty content field in an otherwise
// valid completion.
const DefaultContent = "Set a 5-minute timer and take the first small step"

const systemPrompt = "You are TaskCatalyst AI, specialized in creating " +
	"psychological catalyst tasks that overcome procrastination through " +
	"the Zeigarnik Effect."

// TextCompleter produces a JSON text completion for a prompt. It is the
// only outbound dependency of the generator and is injected at
// construction time so tests can substitute a double.
type TextCompleter interface {
	CompleteJSON(ctx context.Context, system, prompt string) ([]byte, error)
}

// Generator turns a task's descriptive fields into one catalyst
// suggestion. The primary path is the text-completion client; any failure
// there falls back to the deterministic template table, so Generate never
// fails from the caller's perspective.
type Generator struct {
	client TextCompleter
}

// NewGenerator creates a Generator. A nil client is valid and makes every
// generation take the fallback path.
func NewGenerator(client TextCompleter) *Generator {
	return &Generator{client: client}
}

// completion is the shape the model is asked to respond with.
type completion struct {
	Content          string  `json:"content"`
	EstimatedMinutes float64 `json:"estimatedMinutes"`
}

// Generate produces a catalyst for the request. The returned Result
// always has non-empty content and minutes within [1,5].
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) Result {
	result, err := g.complete(ctx, req)
	if err != nil {
		log.Printf("[catalyst] generation failed, using fallback: %v", err)
		result = Fallback(req.TaskTitle)
	}

	result.MatchedInterests, result.RelevanceScore = matchInterests(req)
	return result
}

// complete runs the primary generation path.
func (g *Generator) complete(ctx context.Context, req GenerateRequest) (Result, error) {
	if g.client == nil {
		return Result{}, fmt.Errorf("no text-completion client configured")
	}

	raw, err := g.client.CompleteJSON(ctx, systemPrompt, buildPrompt(req))
	if err != nil {
		return Result{}, fmt.Errorf("completion request failed: %w", err)
	}

	var c completion
	if err := json.Unmarshal(raw, &c); err != nil {
		return Result{}, fmt.Errorf("malformed completion response: %w", err)
	}

	content := strings.TrimSpace(c.Content)
	if content == "" {
		content = DefaultContent
	}

	return Result{
		Content:          content,
		EstimatedMinutes: clampMinutes(c.EstimatedMinutes),
	}, nil
}

// clampMinutes forces the estimate into [1,5]. A missing or zero estimate
// is treated as 5.
func clampMinutes(minutes float64) int {
	m := int(math.Round(minutes))
	if m == 0 {
		return 5
	}
	if m < 1 {
		return 1
	}
	if m > 5 {
		return 5
	}
	return m
}

// buildPrompt embeds the task fields into the catalyst prompt. Optional
// fields are omitted entirely when absent.
func buildPrompt(req GenerateRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Given this task: %q\n", req.TaskTitle)
	if req.TaskDescription != "" {
		fmt.Fprintf(&b, "Description: %s\n", req.TaskDescription)
	}
	if req.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", req.Category)
	}
	if req.Priority != "" {
		fmt.Fprintf(&b, "Priority: %s\n", req.Priority)
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "User interests: %s\n", strings.Join(req.Interests, ", "))
	}

	b.WriteString(`
Generate a single catalyst subtask that:
- Takes under 5 minutes to complete
- Creates tangible progress toward the main task
- Removes initial friction and psychological barriers
- Is impossibly simple to start (no complex decision-making)
- Produces a concrete artifact or outcome
- Is psychologically safe (no risk of failure)

Format: Active verb + specific object + clear outcome
Examples:
- "Open a blank document and write just the task title and today's date"
- "Create a folder named 'Project X' on your desktop"
- "Find your textbook and open it to chapter 5 (leave it open)"
- "Set a 10-minute timer and place it next to your workspace"

Respond with JSON in this exact format:
{
  "content": "Your catalyst micro-task here",
  "estimatedMinutes": 3
}

The content should be practical, specific, and immediately actionable. The estimatedMinutes should be 1-5 minutes.
`)

	return b.String()
}

// matchInterests annotates which of the user's interest tags appear in
// the task fields, and derives a 0-100 relevance score from the fraction
// matched.
func matchInterests(req GenerateRequest) ([]string, int) {
	if len(req.Interests) == 0 {
		return nil, 0
	}

	haystack := strings.ToLower(
		req.TaskTitle + " " + req.TaskDescription + " " + req.Category,
	)

	var matched []string
	for _, interest := range req.Interests {
		if interest == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(interest)) {
			matched = append(matched, interest)
		}
	}

	score := int(math.Round(float64(len(matched)) / float64(len(req.Interests)) * 100))
	return matched, score
}
