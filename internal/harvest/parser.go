package harvest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

// ErrLayoutMismatch reports that a parser does not recognize the node's
// layout. The harvester tries the next variant; only when every variant
// declines does the fragment count as a skip.
var ErrLayoutMismatch = errors.New("harvest: layout mismatch")

// ErrNotOriginal reports a feed entry that is the profile reacting to
// someone else's content. These are filtered, not counted as failures.
var ErrNotOriginal = errors.New("harvest: not an original post")

// FragmentParser extracts one RawPostFragment from one rendered post
// node. LinkedIn ships several container layouts at once and rotates
// them without notice, so each observed layout gets its own variant —
// new layouts are added as new parsers, not as deeper branches.
type FragmentParser interface {
	Name() string
	Parse(sel *goquery.Selection) (domain.RawPostFragment, error)
}

// defaultParsers lists the variants in the order the layouts are most
// commonly seen on activity pages.
var defaultParsers = []FragmentParser{
	&feedUpdateParser{},
	&occludableParser{},
	&creatorFeedParser{},
}

// ParseFragment runs a node through the parser set and returns the first
// successful extraction plus the variant that produced it.
func ParseFragment(html string) (domain.RawPostFragment, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.RawPostFragment{}, "", fmt.Errorf("harvest: parse node: %w", err)
	}
	root := doc.Selection
	if !IsOriginal(root) {
		return domain.RawPostFragment{}, "", ErrNotOriginal
	}

	var lastErr error
	for _, p := range defaultParsers {
		frag, err := p.Parse(root)
		if err == nil {
			return frag, p.Name(), nil
		}
		if !errors.Is(err, ErrLayoutMismatch) {
			lastErr = err
		}
	}
	if lastErr != nil {
		return domain.RawPostFragment{}, "", lastErr
	}
	return domain.RawPostFragment{}, "", fmt.Errorf("%w: no variant matched", ErrLayoutMismatch)
}

// activityPrefixes mark feed entries that are reactions to other
// people's content, not original posts.
var activityPrefixes = []string{
	"liked", "commented on", "replied", "reposted",
	"shared", "celebrates", "mentioned in", "follows",
}

// IsOriginal reports whether a node is the profile's own post rather
// than surfaced third-party activity.
func IsOriginal(sel *goquery.Selection) bool {
	head := strings.ToLower(strings.TrimSpace(sel.Text()))
	if len(head) > 80 {
		head = head[:80]
	}
	for _, p := range activityPrefixes {
		if strings.HasPrefix(head, p) {
			return false
		}
	}
	return true
}

// feedUpdateParser handles the standard feed-shared-update-v2 layout.
type feedUpdateParser struct{}

func (feedUpdateParser) Name() string { return "feed-shared-update-v2" }

func (p *feedUpdateParser) Parse(sel *goquery.Selection) (domain.RawPostFragment, error) {
	node := matchRoot(sel, ".feed-shared-update-v2")
	if node == nil {
		return domain.RawPostFragment{}, ErrLayoutMismatch
	}
	return extractCommon(node, []string{
		".feed-shared-update-v2__description",
		".update-components-text",
		".feed-shared-text",
	})
}

// occludableParser handles virtualized occludable-update containers.
type occludableParser struct{}

func (occludableParser) Name() string { return "occludable-update" }

func (p *occludableParser) Parse(sel *goquery.Selection) (domain.RawPostFragment, error) {
	node := matchRoot(sel, ".occludable-update")
	if node == nil {
		return domain.RawPostFragment{}, ErrLayoutMismatch
	}
	return extractCommon(node, []string{
		".update-components-text",
		".feed-shared-text",
		".feed-shared-text-view",
	})
}

// creatorFeedParser handles the creator-mode activity container.
type creatorFeedParser struct{}

func (creatorFeedParser) Name() string { return "profile-creator-shared-feed-update" }

func (p *creatorFeedParser) Parse(sel *goquery.Selection) (domain.RawPostFragment, error) {
	node := matchRoot(sel, ".profile-creator-shared-feed-update__container")
	if node == nil {
		return domain.RawPostFragment{}, ErrLayoutMismatch
	}
	return extractCommon(node, []string{
		".update-components-update-v2__commentary",
		".update-components-text",
		".feed-shared-text",
	})
}

// matchRoot resolves the layout's container: either the node itself or
// its first matching descendant.
func matchRoot(sel *goquery.Selection, selector string) *goquery.Selection {
	if sel.Is(selector) {
		return sel
	}
	if n := sel.Find(selector).First(); n.Length() > 0 {
		return n
	}
	return nil
}

// extractCommon pulls the shared pieces out of a matched container. The
// text selector priority is the only thing that differs between layouts.
func extractCommon(node *goquery.Selection, textSelectors []string) (domain.RawPostFragment, error) {
	var text string
	for _, s := range textSelectors {
		node.Find(s).Each(func(_ int, el *goquery.Selection) {
			if t := strings.TrimSpace(el.Text()); len(t) > len(text) {
				text = t
			}
		})
	}
	if text == "" {
		return domain.RawPostFragment{}, fmt.Errorf("harvest: no text content")
	}

	fragID, _ := node.Attr("data-urn")
	if fragID == "" {
		fragID, _ = node.Attr("data-id")
	}

	return domain.RawPostFragment{
		FragmentID:   fragID,
		TextBlob:     text,
		ReactionsRaw: findCount(node, []string{
			".social-details-social-counts__reactions-count",
			".social-details-social-counts__social-proof-text",
		}, "reaction", "like"),
		CommentsRaw: findCount(node, []string{
			".social-details-social-counts__comments",
		}, "comment"),
		RepostsRaw: findCount(node, []string{
			".social-details-social-counts__reshares",
		}, "repost", "share"),
		TimestampRaw: findTimestamp(node),
		MediaPresent: node.Find("img.update-components-image__image, video, .update-components-linkedin-video").Length() > 0,
	}, nil
}

// findCount looks for a count in the dedicated selectors first, then
// falls back to scanning the social-counts text for the keyword.
func findCount(node *goquery.Selection, selectors []string, keywords ...string) string {
	for _, s := range selectors {
		if el := node.Find(s).First(); el.Length() > 0 {
			if t := strings.TrimSpace(el.Text()); t != "" {
				return t
			}
		}
	}
	social := node.Find(".social-details-social-counts, .update-components-social-activity").First()
	if social.Length() == 0 {
		return ""
	}
	for _, line := range strings.Split(social.Text(), "\n") {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return strings.TrimSpace(line)
			}
		}
	}
	return ""
}

var timestampHints = []string{"ago", "hour", "day", "min", "sec", "just now", "week", "month", "yr", "h", "d", "w"}

func findTimestamp(node *goquery.Selection) string {
	for _, s := range []string{
		"time",
		".update-components-actor__sub-description",
		".feed-shared-actor__sub-description",
		".feed-shared-actor__creation-time",
		".artdeco-entity-lockup__caption",
	} {
		var found string
		node.Find(s).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			t := strings.TrimSpace(el.Text())
			if t == "" {
				return true
			}
			lower := strings.ToLower(t)
			for _, hint := range timestampHints {
				if strings.Contains(lower, hint) {
					found = t
					return false
				}
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}
