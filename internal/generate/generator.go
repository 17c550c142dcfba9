// Package generate drafts new post candidates from a StyleProfile. The
// hosted service is an external collaborator: its output is passed
// through without validation or post-processing.
package generate

import (
	"context"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

// Request carries the style profile plus the user-chosen knobs.
type Request struct {
	Profile      domain.StyleProfile
	Topic        string
	ToneOverride domain.Tone
	CTAOverride  domain.CTAStyle
	HashtagCount int
	TargetLength int
	Variations   int
	Feedback     string
}

// Generator produces candidate post texts from a request.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]string, error)
}

func (r Request) tone() domain.Tone {
	if r.ToneOverride != "" {
		return r.ToneOverride
	}
	if r.Profile.DominantTone != "" {
		return r.Profile.DominantTone
	}
	return domain.ToneProfessional
}

func (r Request) cta() domain.CTAStyle {
	if r.CTAOverride != "" {
		return r.CTAOverride
	}
	if r.Profile.PreferredCTAStyle != "" {
		return r.Profile.PreferredCTAStyle
	}
	return domain.CTANone
}

func (r Request) variations() int {
	if r.Variations <= 0 {
		return 3
	}
	return r.Variations
}
