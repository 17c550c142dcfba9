package generate

import (
	"context"
	"strings"
	"testing"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitVariations(t *testing.T) {
	content := `Post 1: First draft about growth.

Post 2:
Second draft,
multi-line.

Post 3: Third.`
	posts := SplitVariations(content)
	require.Len(t, posts, 3)
	assert.Equal(t, "First draft about growth.", posts[0])
	assert.Contains(t, posts[1], "multi-line")
	assert.Equal(t, "Third.", posts[2])
}

func TestSplitVariations_NoMarkers(t *testing.T) {
	posts := SplitVariations("just one blob of text")
	require.Len(t, posts, 1)
	assert.Equal(t, "just one blob of text", posts[0])
}

func TestBuildPrompt(t *testing.T) {
	req := Request{
		Profile: domain.StyleProfile{
			DominantTone:      domain.ToneEducational,
			PreferredCTAStyle: domain.CTAQuestion,
			TypicalHashtags:   []string{"#go", "#dev", "#infra"},
		},
		Topic:        "shipping side projects",
		HashtagCount: 2,
		TargetLength: 600,
		Variations:   3,
		Feedback:     "make them shorter",
	}
	prompt := buildPrompt(req)

	assert.Contains(t, prompt, "shipping side projects")
	assert.Contains(t, prompt, "educational tone")
	assert.Contains(t, prompt, "engaging question")
	assert.Contains(t, prompt, "#go #dev")
	assert.NotContains(t, prompt, "#infra", "hashtag count caps the list")
	assert.Contains(t, prompt, "600 characters")
	assert.Contains(t, prompt, "make them shorter")
	assert.Contains(t, prompt, `"Post 1:"`)
}

func TestBuildPrompt_UsesTopSampleWhenNoTopic(t *testing.T) {
	req := Request{
		Profile: domain.StyleProfile{
			SamplePosts: []domain.Post{{Text: "The winning post text.", Reactions: 40, Comments: 3}},
		},
	}
	prompt := buildPrompt(req)
	assert.Contains(t, prompt, "The winning post text.")
	assert.Contains(t, prompt, "40 reactions")
}

func TestTemplateGenerator_Deterministic(t *testing.T) {
	g := NewTemplateGenerator()
	req := Request{
		Profile: domain.StyleProfile{
			DominantTone:      domain.ToneInspirational,
			PreferredCTAStyle: domain.CTADirectAsk,
			TypicalHashtags:   []string{"#journey", "#grit"},
			SamplePosts:       []domain.Post{{Text: "We doubled the team this year. Here is how."}},
		},
		Variations: 3,
	}

	first, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first, 3)

	again, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	for _, draft := range first {
		assert.Contains(t, draft, "#journey #grit")
		assert.Contains(t, draft, "DM me")
	}
	// Variations differ from each other.
	assert.NotEqual(t, first[0], first[1])
}

func TestTemplateGenerator_DefaultsToThreeVariations(t *testing.T) {
	g := NewTemplateGenerator()
	drafts, err := g.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Len(t, drafts, 3)
}

func TestNewGroqGenerator_RequiresKey(t *testing.T) {
	_, err := NewGroqGenerator("")
	assert.Error(t, err)
}

func TestRequestDefaults(t *testing.T) {
	var req Request
	assert.Equal(t, domain.ToneProfessional, req.tone())
	assert.Equal(t, domain.CTANone, req.cta())
	assert.Equal(t, 3, req.variations())

	req.ToneOverride = domain.ToneCasual
	req.CTAOverride = domain.CTALinkShare
	req.Variations = 5
	assert.Equal(t, domain.ToneCasual, req.tone())
	assert.Equal(t, domain.CTALinkShare, req.cta())
	assert.Equal(t, 5, req.variations())
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "Short one.", firstSentence("Short one. Then more."))
	long := strings.Repeat("x", 200)
	assert.Len(t, firstSentence(long), 120)
}
