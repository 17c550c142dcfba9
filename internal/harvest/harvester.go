// Package harvest drives pagination over a profile's activity feed and
// turns the rendered post fragments into a deduplicated ScrapeResult.
package harvest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
	"golang.org/x/time/rate"
)

// Feed is the harvester's port onto the browser session. One Feed is
// exclusively owned by one harvest for its lifetime.
type Feed interface {
	// OpenActivity navigates to the profile's recent-activity surface.
	OpenActivity(ctx context.Context, profileID string) error
	// ExpandSeeMore clicks every visible "see more" toggle.
	ExpandSeeMore(ctx context.Context) error
	// RenderedNodes returns the outer HTML of every post container
	// currently rendered on the page.
	RenderedNodes(ctx context.Context) ([]string, error)
	// Scroll triggers one pagination step and waits for it to settle.
	Scroll(ctx context.Context) error
}

const (
	// defaultIdleRounds is how many consecutive pagination rounds may
	// yield no new posts before the feed counts as exhausted.
	defaultIdleRounds = 3
	// defaultSkipThreshold ends the harvest early (truncated, not
	// failed) when one round produces this many extraction errors.
	defaultSkipThreshold = 5
	// scrollInterval paces pagination to stay under the rate limits.
	scrollInterval = 2 * time.Second
)

// Harvester collects canonical posts from one Feed.
type Harvester struct {
	feed          Feed
	limiter       *rate.Limiter
	logger        *slog.Logger
	idleRounds    int
	skipThreshold int
	now           func() time.Time
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harvester) { h.logger = l }
}

// WithLimiter overrides the pagination rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(h *Harvester) { h.limiter = l }
}

// WithIdleRounds overrides the feed-exhaustion threshold.
func WithIdleRounds(n int) Option {
	return func(h *Harvester) { h.idleRounds = n }
}

// WithSkipThreshold overrides the per-round extraction error budget.
func WithSkipThreshold(n int) Option {
	return func(h *Harvester) { h.skipThreshold = n }
}

// WithClock overrides the time source for relative-timestamp anchoring.
func WithClock(now func() time.Time) Option {
	return func(h *Harvester) { h.now = now }
}

// New creates a Harvester over the given feed.
func New(feed Feed, opts ...Option) *Harvester {
	h := &Harvester{
		feed:          feed,
		limiter:       rate.NewLimiter(rate.Every(scrollInterval), 1),
		logger:        slog.Default(),
		idleRounds:    defaultIdleRounds,
		skipThreshold: defaultSkipThreshold,
		now:           time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Harvest paginates until MaxPosts distinct posts are collected or the
// feed is exhausted. A sustained extraction error rate within one round
// ends the harvest early with Truncated=true rather than failing.
// Cancellation discards everything collected so far: a cancelled
// harvest produces no partial result.
func (h *Harvester) Harvest(ctx context.Context, cfg domain.ScrapeConfig) (*domain.ScrapeResult, error) {
	if err := h.feed.OpenActivity(ctx, cfg.ProfileID); err != nil {
		return nil, err
	}

	scrapedAt := h.now()
	seen := make(map[string]struct{})
	var posts []domain.Post
	truncated := false
	idle := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		if err := h.feed.ExpandSeeMore(ctx); err != nil {
			h.logger.Warn("expand see-more failed", "profile", cfg.ProfileID, "err", err)
		}

		nodes, err := h.feed.RenderedNodes(ctx)
		if err != nil {
			return nil, err
		}

		added, skips := 0, 0
		for _, node := range nodes {
			post, ok := h.extract(node, cfg.ProfileID, scrapedAt, &skips)
			if !ok {
				continue
			}
			if _, dup := seen[post.ID]; dup {
				continue
			}
			seen[post.ID] = struct{}{}
			posts = append(posts, post)
			added++
			if len(posts) >= cfg.MaxPosts {
				truncated = true
				break
			}
		}

		h.logger.Debug("pagination round",
			"profile", cfg.ProfileID, "rendered", len(nodes),
			"added", added, "skipped", skips, "total", len(posts))

		if len(posts) >= cfg.MaxPosts {
			break
		}
		if skips >= h.skipThreshold {
			h.logger.Warn("extraction error threshold reached, ending harvest early",
				"profile", cfg.ProfileID, "skips", skips, "collected", len(posts))
			truncated = true
			break
		}

		if added == 0 {
			idle++
			if idle >= h.idleRounds {
				break // feed exhausted
			}
		} else {
			idle = 0
		}

		if err := h.feed.Scroll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			h.logger.Warn("scroll failed", "profile", cfg.ProfileID, "err", err)
			idle++
			if idle >= h.idleRounds {
				break
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &domain.ScrapeResult{
		ProfileID: cfg.ProfileID,
		Posts:     posts,
		ScrapedAt: scrapedAt,
		Truncated: truncated,
	}, nil
}

// extract maps one rendered node to a canonical post. Structural errors
// are absorbed here: they increment the round's skip counter and log at
// debug level, nothing more.
func (h *Harvester) extract(node, profileID string, scrapedAt time.Time, skips *int) (domain.Post, bool) {
	frag, variant, err := ParseFragment(node)
	if err != nil {
		if errors.Is(err, ErrNotOriginal) {
			return domain.Post{}, false
		}
		*skips++
		h.logger.Debug("fragment parse failed", "err", err)
		return domain.Post{}, false
	}

	post, err := Normalize(frag, profileID, scrapedAt)
	if err != nil {
		*skips++
		h.logger.Debug("fragment normalize failed", "variant", variant, "err", err)
		return domain.Post{}, false
	}
	return post, true
}
