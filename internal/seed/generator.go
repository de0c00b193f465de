// ABOUTME: AI-powered data generator for realistic support tickets.
// ABOUTME: Uses OpenAI chat completions when a key is configured, static data otherwise.

package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-5-mini"

// Generator creates fake tickets using OpenAI or falls back to static data.
type Generator struct {
	client *openai.Client
	useAI  bool
	model  string
}

// NewGenerator creates a generator. An empty apiKey selects static data.
func NewGenerator(apiKey, model string) *Generator {
	g := &Generator{model: model}
	if g.model == "" {
		g.model = DefaultModel
	}

	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
		g.useAI = true
		log.Printf("OpenAI API key found, using AI-generated data with model: %s", g.model)
	} else {
		log.Println("No OPENAI_API_KEY found, using static fallback data")
	}

	return g
}

// UsesAI reports whether the generator calls OpenAI.
func (g *Generator) UsesAI() bool {
	return g.useAI
}

// TicketData represents a generated support ticket.
type TicketData struct {
	Subject   string `json:"subject"`
	Requester string `json:"requester"`
	Priority  string `json:"priority"`
	Body      string `json:"body"`
}

// Priorities accepted for generated tickets.
var Priorities = []string{"low", "normal", "high", "urgent"}

// GenerateTickets creates count tickets. AI failures fall back to static data.
func (g *Generator) GenerateTickets(ctx context.Context, count int) ([]TicketData, error) {
	if count <= 0 {
		return nil, nil
	}
	if !g.useAI {
		return generateStaticTickets(count), nil
	}

	log.Printf("Generating %d tickets via AI...", count)
	tickets, err := g.generateTickets(ctx, count)
	if err != nil {
		log.Printf("  ✗ Failed to generate tickets: %v", err)
		log.Print("AI generation incomplete, falling back to static data...")
		return generateStaticTickets(count), nil
	}
	if len(tickets) < count {
		tickets = append(tickets, generateStaticTickets(count-len(tickets))...)
	}

	for i := range tickets {
		tickets[i].Priority = normalizePriority(tickets[i].Priority)
	}
	log.Printf("  ✓ Generated %d tickets", len(tickets))
	return tickets[:count], nil
}

func (g *Generator) generateTickets(ctx context.Context, count int) ([]TicketData, error) {
	prompt := fmt.Sprintf(`Generate %d realistic customer support tickets for a SaaS product. Include a mix of:
- Billing questions and refund requests
- Login and account access problems
- Bug reports with short reproduction notes
- Feature requests
- Urgent outages

Return as JSON array with objects containing: subject, requester (an email address), priority (one of low, normal, high, urgent), body.
About 10%% should be urgent. Each body should be 1-3 sentences.`, count)

	return callOpenAI[[]TicketData](ctx, g.client, g.model, prompt)
}

func normalizePriority(p string) string {
	for _, known := range Priorities {
		if p == known {
			return p
		}
	}
	return "normal"
}

func callOpenAI[T any](ctx context.Context, client *openai.Client, model, prompt string) (T, error) {
	var result T

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a data generator. Always respond with valid JSON only, no markdown or explanation.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return result, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return result, nil
}
