package harvest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// fakeFeed scripts the rendered nodes per pagination round. After the
// script runs out it keeps re-rendering the last round, which is what a
// fully scrolled feed does.
type fakeFeed struct {
	rounds   [][]string
	round    int
	opened   string
	onScroll func()
}

func (f *fakeFeed) OpenActivity(_ context.Context, profileID string) error {
	f.opened = profileID
	return nil
}

func (f *fakeFeed) ExpandSeeMore(context.Context) error { return nil }

func (f *fakeFeed) RenderedNodes(context.Context) ([]string, error) {
	i := f.round
	if i >= len(f.rounds) {
		i = len(f.rounds) - 1
	}
	return f.rounds[i], nil
}

func (f *fakeFeed) Scroll(context.Context) error {
	if f.onScroll != nil {
		f.onScroll()
	}
	f.round++
	return nil
}

func postNode(n int, text string) string {
	return fmt.Sprintf(`
<div class="feed-shared-update-v2" data-urn="urn:li:activity:%d">
  <span class="update-components-actor__sub-description">%dd</span>
  <div class="update-components-text">%s</div>
  <div class="social-details-social-counts">
    <span class="social-details-social-counts__reactions-count">%d</span>
  </div>
</div>`, n, n, text, n*10)
}

func fastHarvester(feed Feed, opts ...Option) *Harvester {
	base := []Option{WithLimiter(rate.NewLimiter(rate.Inf, 1))}
	return New(feed, append(base, opts...)...)
}

func testConfig(maxPosts int) domain.ScrapeConfig {
	return domain.ScrapeConfig{ProfileID: "jane-doe", MaxPosts: maxPosts}
}

func TestHarvest_CollectsAndNormalizes(t *testing.T) {
	feed := &fakeFeed{rounds: [][]string{
		{postNode(1, "First post about leadership."), postNode(2, "Second post, shorter.")},
	}}
	h := fastHarvester(feed)

	result, err := h.Harvest(context.Background(), testConfig(10))
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", feed.opened)
	assert.Equal(t, "jane-doe", result.ProfileID)
	require.Len(t, result.Posts, 2)
	assert.False(t, result.Truncated)

	// Feed order preserved: most recent first, no re-sorting.
	assert.Contains(t, result.Posts[0].Text, "First post")
	assert.Contains(t, result.Posts[1].Text, "Second post")
}

func TestHarvest_DedupAcrossRounds(t *testing.T) {
	// Scrolling re-renders already-seen posts; the same fragment twice
	// must yield exactly one Post.
	feed := &fakeFeed{rounds: [][]string{
		{postNode(1, "Original post one.")},
		{postNode(1, "Original post one."), postNode(2, "Post number two.")},
	}}
	h := fastHarvester(feed)

	result, err := h.Harvest(context.Background(), testConfig(10))
	require.NoError(t, err)
	assert.Len(t, result.Posts, 2)

	ids := make(map[string]struct{})
	for _, p := range result.Posts {
		_, dup := ids[p.ID]
		assert.False(t, dup, "duplicate post id %s", p.ID)
		ids[p.ID] = struct{}{}
	}
}

func TestHarvest_MaxPostsTruncates(t *testing.T) {
	nodes := make([]string, 6)
	for i := range nodes {
		nodes[i] = postNode(i+1, fmt.Sprintf("Distinct post number %d here.", i+1))
	}
	feed := &fakeFeed{rounds: [][]string{nodes}}
	h := fastHarvester(feed)

	result, err := h.Harvest(context.Background(), testConfig(5))
	require.NoError(t, err)
	assert.Len(t, result.Posts, 5)
	assert.True(t, result.Truncated)
}

func TestHarvest_ExhaustedFeedIsNotTruncated(t *testing.T) {
	// A feed with 3 total posts and a cap of 5 drains completely.
	feed := &fakeFeed{rounds: [][]string{{
		postNode(1, "Only post one."),
		postNode(2, "Only post two."),
		postNode(3, "Only post three."),
	}}}
	h := fastHarvester(feed, WithIdleRounds(2))

	result, err := h.Harvest(context.Background(), testConfig(5))
	require.NoError(t, err)
	assert.Len(t, result.Posts, 3)
	assert.False(t, result.Truncated)
}

func TestHarvest_SkipThresholdEndsEarly(t *testing.T) {
	broken := []string{
		`<div class="totally-new-layout">a</div>`,
		`<div class="totally-new-layout">b</div>`,
		`<div class="totally-new-layout">c</div>`,
	}
	feed := &fakeFeed{rounds: [][]string{
		append([]string{postNode(1, "One good post survives.")}, broken...),
	}}
	h := fastHarvester(feed, WithSkipThreshold(3))

	result, err := h.Harvest(context.Background(), testConfig(10))
	require.NoError(t, err, "sustained extraction errors must not fail the harvest")
	assert.True(t, result.Truncated)
	assert.Len(t, result.Posts, 1)
}

func TestHarvest_NonOriginalActivityIsFilteredNotCounted(t *testing.T) {
	liked := `
<div class="feed-shared-update-v2">
  <span>liked this</span>
  <div class="update-components-text">Somebody else's content.</div>
</div>`
	feed := &fakeFeed{rounds: [][]string{
		{liked, postNode(1, "An actual original post.")},
	}}
	// Threshold 1: if the liked entry counted as a skip, the harvest
	// would truncate. It must not.
	h := fastHarvester(feed, WithSkipThreshold(1), WithIdleRounds(1))

	result, err := h.Harvest(context.Background(), testConfig(10))
	require.NoError(t, err)
	assert.False(t, result.Truncated)
	assert.Len(t, result.Posts, 1)
}

func TestHarvest_CancellationDiscardsPartialState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	feed := &fakeFeed{
		rounds: [][]string{
			{postNode(1, "Collected before cancel one."), postNode(2, "Collected before cancel two.")},
			{postNode(3, "Never reached post.")},
		},
	}
	feed.onScroll = cancel // cancellation arrives mid-pagination

	h := fastHarvester(feed)
	result, err := h.Harvest(ctx, testConfig(10))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result, "a cancelled harvest produces no partial result")
}

func TestHarvest_ClockAnchorsTimestamps(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	feed := &fakeFeed{rounds: [][]string{{postNode(2, "Posted two days ago.")}}}
	h := fastHarvester(feed, WithClock(func() time.Time { return now }))

	result, err := h.Harvest(context.Background(), testConfig(10))
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, now.Add(-48*time.Hour), result.Posts[0].PostedAt)
	assert.Equal(t, now, result.ScrapedAt)
}
