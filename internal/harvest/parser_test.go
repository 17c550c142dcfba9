package harvest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedUpdateNode(text, timestamp, reactions, comments, reposts string) string {
	return fmt.Sprintf(`
<div class="feed-shared-update-v2" data-urn="urn:li:activity:7001">
  <div class="update-components-actor">
    <span class="update-components-actor__sub-description">%s</span>
  </div>
  <div class="update-components-text">%s</div>
  <div class="social-details-social-counts">
    <span class="social-details-social-counts__reactions-count">%s</span>
    <span class="social-details-social-counts__comments">%s comments</span>
    <span class="social-details-social-counts__reshares">%s reposts</span>
  </div>
</div>`, timestamp, text, reactions, comments, reposts)
}

func TestParseFragment_FeedUpdateLayout(t *testing.T) {
	node := feedUpdateNode("Shipping a new side project this week. #golang", "3d", "1.2K", "85", "12")

	frag, variant, err := ParseFragment(node)
	require.NoError(t, err)
	assert.Equal(t, "feed-shared-update-v2", variant)
	assert.Equal(t, "urn:li:activity:7001", frag.FragmentID)
	assert.Contains(t, frag.TextBlob, "side project")
	assert.Equal(t, "3d", frag.TimestampRaw)
	assert.Equal(t, "1.2K", frag.ReactionsRaw)
	assert.Contains(t, frag.CommentsRaw, "85")
	assert.Contains(t, frag.RepostsRaw, "12")
	assert.False(t, frag.MediaPresent)
}

func TestParseFragment_OccludableLayout(t *testing.T) {
	node := `
<li class="occludable-update" data-id="update-1">
  <span class="update-components-actor__sub-description">2 weeks ago</span>
  <div class="feed-shared-text">Lessons from a failed launch.</div>
</li>`

	frag, variant, err := ParseFragment(node)
	require.NoError(t, err)
	assert.Equal(t, "occludable-update", variant)
	assert.Equal(t, "update-1", frag.FragmentID)
	assert.Contains(t, frag.TextBlob, "failed launch")
	assert.Equal(t, "2 weeks ago", frag.TimestampRaw)
}

func TestParseFragment_CreatorFeedLayout(t *testing.T) {
	node := `
<div class="profile-creator-shared-feed-update__container">
  <time>5h</time>
  <div class="update-components-update-v2__commentary">Hiring two backend engineers.</div>
  <img class="update-components-image__image" src="x.jpg"/>
</div>`

	frag, variant, err := ParseFragment(node)
	require.NoError(t, err)
	assert.Equal(t, "profile-creator-shared-feed-update", variant)
	assert.Contains(t, frag.TextBlob, "Hiring")
	assert.Equal(t, "5h", frag.TimestampRaw)
	assert.True(t, frag.MediaPresent)
}

func TestParseFragment_UnknownLayout(t *testing.T) {
	_, _, err := ParseFragment(`<div class="totally-new-layout">something</div>`)
	assert.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestParseFragment_FiltersNonOriginalActivity(t *testing.T) {
	node := `
<div class="feed-shared-update-v2">
  <span>liked this</span>
  <div class="update-components-text">Someone else's post content.</div>
</div>`
	_, _, err := ParseFragment(node)
	assert.ErrorIs(t, err, ErrNotOriginal)
}

func TestParseFragment_MissingTextIsAnError(t *testing.T) {
	node := `<div class="feed-shared-update-v2"><time>3d</time></div>`
	_, _, err := ParseFragment(node)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLayoutMismatch)
}

func TestParseFragment_LongestTextWins(t *testing.T) {
	// Truncated preview and expanded text coexist in the DOM; the
	// longer block is the real content.
	node := `
<div class="feed-shared-update-v2">
  <time>1d</time>
  <div class="update-components-text">Short preview…</div>
  <div class="update-components-text">Short preview expanded into the full post body with details.</div>
</div>`
	frag, _, err := ParseFragment(node)
	require.NoError(t, err)
	assert.Contains(t, frag.TextBlob, "full post body")
}
