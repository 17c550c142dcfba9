package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

// TemplateGenerator is the local fallback used when the hosted service
// is unreachable or no API key is configured. Deterministic: the same
// request always produces the same drafts.
type TemplateGenerator struct{}

// NewTemplateGenerator returns the local fallback generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

var openers = map[domain.Tone][]string{
	domain.ToneProfessional: {
		"Here's a perspective from the field:",
		"A pattern I keep seeing in our industry:",
		"After another week of client work, one thing stands out:",
	},
	domain.ToneCasual: {
		"Okay, real talk:",
		"Random thought over coffee:",
		"Something I've been mulling over:",
	},
	domain.ToneInspirational: {
		"A milestone worth sharing:",
		"The journey matters more than the destination.",
		"Grateful for how far this has come:",
	},
	domain.ToneEducational: {
		"Here's what I learned this week:",
		"A quick breakdown for anyone starting out:",
		"Three lessons worth writing down:",
	},
	domain.TonePromotional: {
		"Announcing something new:",
		"We just launched, and here's why it matters:",
		"A limited window worth knowing about:",
	},
}

// Generate assembles drafts from the profile's samples, tone, and
// hashtags. No network, no model; a distinguishable placeholder voice
// the UI labels as the fallback.
func (t *TemplateGenerator) Generate(_ context.Context, req Request) ([]string, error) {
	tone := req.tone()
	lines := openers[tone]
	if len(lines) == 0 {
		lines = openers[domain.ToneProfessional]
	}

	subject := req.Topic
	if subject == "" && len(req.Profile.SamplePosts) > 0 {
		subject = firstSentence(req.Profile.SamplePosts[0].Text)
	}
	if subject == "" {
		subject = "what's been working for this audience lately"
	}

	tags := req.Profile.TypicalHashtags
	if req.HashtagCount > 0 && req.HashtagCount < len(tags) {
		tags = tags[:req.HashtagCount]
	}

	n := req.variations()
	drafts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var b strings.Builder
		b.WriteString(lines[i%len(lines)])
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s\n\n", subject)

		switch req.cta() {
		case domain.CTAQuestion:
			b.WriteString("What has your experience been?\n")
		case domain.CTADirectAsk:
			b.WriteString("Share this with someone who needs it, or DM me to compare notes.\n")
		case domain.CTALinkShare:
			b.WriteString("Link with the full write-up in the comments.\n")
		}
		if len(tags) > 0 {
			b.WriteString("\n")
			b.WriteString(strings.Join(tags, " "))
		}
		drafts = append(drafts, strings.TrimSpace(b.String()))
	}
	return drafts, nil
}

func firstSentence(text string) string {
	for _, sep := range []string{". ", "!\n", "?\n", "\n"} {
		if i := strings.Index(text, sep); i > 0 {
			return strings.TrimSpace(text[:i+1])
		}
	}
	if len(text) > 120 {
		return strings.TrimSpace(text[:120])
	}
	return strings.TrimSpace(text)
}
