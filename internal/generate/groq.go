package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	groqModel   = "llama3-70b-8192"
)

var postMarkerRe = regexp.MustCompile(`(?m)^\s*Post \d+:\s*`)

// GroqGenerator calls Groq's OpenAI-compatible chat-completions API.
type GroqGenerator struct {
	client *openai.Client
	model  string
}

// NewGroqGenerator builds a generator against the Groq endpoint.
func NewGroqGenerator(apiKey string) (*GroqGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("generate: GROQ_API_KEY is required for api mode")
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	return &GroqGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  groqModel,
	}, nil
}

// Generate builds the prompt from the style profile and knobs, calls the
// service, and splits the response into one string per variation.
func (g *GroqGenerator) Generate(ctx context.Context, req Request) ([]string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)}},
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		return nil, fmt.Errorf("generate: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("generate: empty response")
	}
	return SplitVariations(resp.Choices[0].Message.Content), nil
}

// SplitVariations cuts the model output on its "Post N:" markers.
func SplitVariations(content string) []string {
	var posts []string
	for _, part := range postMarkerRe.Split(content, -1) {
		if p := strings.TrimSpace(part); p != "" {
			posts = append(posts, p)
		}
	}
	return posts
}

func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a LinkedIn content creator assistant.\n\n")

	if req.Topic != "" {
		fmt.Fprintf(&b, "Create %d different variations of a LinkedIn post about the following topic:\n%q\n\n",
			req.variations(), req.Topic)
	} else if len(req.Profile.SamplePosts) > 0 {
		sample := req.Profile.SamplePosts[0]
		fmt.Fprintf(&b, "Here is a sample post that performed well:\n%q\n\n", sample.Text)
		fmt.Fprintf(&b, "It was posted at %02d:00 and received %d reactions, %d comments and %d reposts.\n\n",
			sample.PostedAt.Hour(), sample.Reactions, sample.Comments, sample.Reposts)
		fmt.Fprintf(&b, "Based on this example, generate %d different variations of a similar post.\n\n",
			req.variations())
	} else {
		fmt.Fprintf(&b, "Generate %d different variations of a LinkedIn post.\n\n", req.variations())
	}

	fmt.Fprintf(&b, "Write in a %s tone.\n", req.tone())
	switch req.cta() {
	case domain.CTAQuestion:
		b.WriteString("End each post with an engaging question to the reader.\n")
	case domain.CTADirectAsk:
		b.WriteString("End each post with a direct ask (comment, share, or DM).\n")
	case domain.CTALinkShare:
		b.WriteString("Mention that a link with more detail is in the comments.\n")
	}
	if req.TargetLength > 0 {
		fmt.Fprintf(&b, "Aim for roughly %d characters per post.\n", req.TargetLength)
	}
	if n := req.HashtagCount; n > 0 && len(req.Profile.TypicalHashtags) > 0 {
		tags := req.Profile.TypicalHashtags
		if n < len(tags) {
			tags = tags[:n]
		}
		fmt.Fprintf(&b, "Include some of these hashtags where appropriate: %s\n", strings.Join(tags, " "))
	}
	if req.Feedback != "" {
		fmt.Fprintf(&b, "\nPlease incorporate this feedback in the new variations: %s\n", req.Feedback)
	}

	b.WriteString("\nMake each post engaging, insightful, and formatted for LinkedIn. ")
	b.WriteString("Each variation should have a different approach or angle.\n")
	b.WriteString(`Format your response with "Post 1:", "Post 2:", etc. before each variation.`)
	return b.String()
}
