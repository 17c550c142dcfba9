package harvest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

var (
	countRe      = regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d+)?)\s*([KkMm]?)`)
	agoRe        = regexp.MustCompile(`(\d+)\s*(second|minute|hour|day|week|month|year)s?\s*ago`)
	shortAgoRe   = regexp.MustCompile(`^(\d+)\s*(s|m|h|d|w|mo|yr)\b`)
	hashtagRe    = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	linkRe       = regexp.MustCompile(`https?://\S+|lnkd\.in/\S+`)
	multiSpace   = regexp.MustCompile(` +`)
	multiNewline = regexp.MustCompile(`\n\s*\n`)
)

// ParseCount coerces an abbreviated engagement count ("1.2K", "3M",
// "1,024", "87 comments") to an integer. Unparseable input yields 0.
func ParseCount(s string) int {
	m := countRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(m[2]) {
	case "k":
		num *= 1_000
	case "m":
		num *= 1_000_000
	}
	return int(num)
}

// ParseTimestamp resolves a feed timestamp to an absolute point in time.
// LinkedIn renders relative forms ("3d", "2 weeks ago", "just now") and,
// for old posts, absolute dates ("Jan 2, 2026"). Month and year spans are
// approximated as 30 and 365 days, matching the feed's own rounding.
func ParseTimestamp(raw string, now time.Time) (time.Time, error) {
	orig := strings.TrimSpace(raw)
	// Suffixes like "3d • Edited" or "1w • 🌐" are noise after the span.
	if i := strings.IndexAny(orig, "•·|"); i >= 0 {
		orig = strings.TrimSpace(orig[:i])
	}
	s := strings.ToLower(orig)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if s == "now" || strings.Contains(s, "just now") {
		return now, nil
	}

	if m := agoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-spanDuration(n, m[2])), nil
	}
	if m := shortAgoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-spanDuration(n, m[2])), nil
	}

	for _, layout := range []string{"Jan 2, 2006", "January 2, 2006"} {
		if t, err := time.ParseInLocation(layout, orig, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

func spanDuration(n int, unit string) time.Duration {
	switch unit {
	case "s", "second":
		return time.Duration(n) * time.Second
	case "m", "minute":
		return time.Duration(n) * time.Minute
	case "h", "hour":
		return time.Duration(n) * time.Hour
	case "d", "day":
		return time.Duration(n) * 24 * time.Hour
	case "w", "week":
		return time.Duration(n) * 7 * 24 * time.Hour
	case "mo", "month":
		return time.Duration(n) * 30 * 24 * time.Hour
	case "yr", "year":
		return time.Duration(n) * 365 * 24 * time.Hour
	}
	return 0
}

// ExtractHashtags returns the #-prefixed tokens of a post in order of
// appearance, deduplicated case-insensitively.
func ExtractHashtags(text string) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, tag := range hashtagRe.FindAllString(text, -1) {
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// CleanText collapses repeated whitespace the way the feed's expanded
// text renders it.
func CleanText(s string) string {
	s = multiNewline.ReplaceAllString(s, "\n\n")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// questionWords opens sentences that make the trailing question mark an
// actual ask rather than rhetoric punctuation.
var questionWords = []string{
	"what", "how", "why", "when", "where", "who", "which",
	"do you", "have you", "would you", "are you", "can you",
	"agree", "thoughts", "opinion",
}

var directAskWords = []string{
	"comment below", "comment if", "share this", "share your",
	"dm me", "send me a dm", "drop a", "tag someone", "let me know",
	"sign up", "register", "subscribe", "follow me", "join us", "reach out",
}

// DetectCTA applies the fixed lexical rule set, in precedence order:
// question, direct ask, link share, none.
func DetectCTA(text string) domain.CTAStyle {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "?") {
		for _, w := range questionWords {
			if strings.Contains(lower, w) {
				return domain.CTAQuestion
			}
		}
	}
	for _, w := range directAskWords {
		if strings.Contains(lower, w) {
			return domain.CTADirectAsk
		}
	}
	if linkRe.MatchString(lower) || strings.Contains(lower, "link in comments") {
		return domain.CTALinkShare
	}
	return domain.CTANone
}

// toneLexicon scores each classifiable tone by keyword hits.
var toneLexicon = map[domain.Tone][]string{
	domain.ToneProfessional: {
		"industry", "strategy", "leadership", "team", "business", "career",
		"growth", "results", "clients", "experience", "professional", "insights",
	},
	domain.ToneCasual: {
		"lol", "haha", "honestly", "fun", "weekend", "coffee", "random",
		"guys", "stuff", "crazy", "cool",
	},
	domain.ToneInspirational: {
		"journey", "dream", "believe", "grateful", "proud", "inspired",
		"never give up", "achieve", "passion", "overcome", "blessed", "milestone",
	},
	domain.ToneEducational: {
		"learn", "how to", "tips", "guide", "lesson", "steps", "here's what",
		"explained", "tutorial", "framework", "breakdown", "thread",
	},
	domain.TonePromotional: {
		"launch", "offer", "discount", "free", "buy", "limited", "webinar",
		"new product", "announcing", "early bird", "check out", "now available",
	},
}

// ClassifyTone scores the text against each tone lexicon. The highest
// score wins; ties resolve in declaration order. Zero hits across all
// lexicons yields the unclassified tone rather than a guess.
func ClassifyTone(text string) domain.Tone {
	lower := strings.ToLower(text)

	best := domain.ToneUnclassified
	bestScore := 0
	for _, tone := range domain.Tones {
		score := 0
		for _, w := range toneLexicon[tone] {
			score += strings.Count(lower, w)
		}
		if score > bestScore {
			best = tone
			bestScore = score
		}
	}
	return best
}

// ExtractTopics returns the lexicon terms the post actually hits, used
// as its topic set.
func ExtractTopics(text string) []string {
	lower := strings.ToLower(text)
	var topics []string
	seen := make(map[string]struct{})
	for _, tone := range domain.Tones {
		for _, w := range toneLexicon[tone] {
			if strings.Contains(lower, w) {
				if _, ok := seen[w]; !ok {
					seen[w] = struct{}{}
					topics = append(topics, w)
				}
			}
		}
	}
	for _, tag := range ExtractHashtags(text) {
		topic := strings.ToLower(strings.TrimPrefix(tag, "#"))
		if _, ok := seen[topic]; !ok {
			seen[topic] = struct{}{}
			topics = append(topics, topic)
		}
	}
	return topics
}

// PostID derives the stable post identity: profile + normalized text +
// resolved timestamp. Scroll reloads re-render the same post with fresh
// DOM ids, so identity has to come from content.
func PostID(profileID, text string, postedAt time.Time) string {
	h := sha256.New()
	h.Write([]byte(profileID))
	h.Write([]byte{0})
	h.Write([]byte(CleanText(text)))
	h.Write([]byte{0})
	h.Write([]byte(postedAt.UTC().Truncate(time.Minute).Format(time.RFC3339)))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Normalize maps one raw fragment to a canonical Post. now anchors
// relative-timestamp resolution.
func Normalize(frag domain.RawPostFragment, profileID string, now time.Time) (domain.Post, error) {
	text := CleanText(frag.TextBlob)
	if text == "" {
		return domain.Post{}, fmt.Errorf("fragment %s: empty text", frag.FragmentID)
	}

	postedAt, err := ParseTimestamp(frag.TimestampRaw, now)
	if err != nil {
		return domain.Post{}, fmt.Errorf("fragment %s: %w", frag.FragmentID, err)
	}
	if postedAt.After(now) {
		return domain.Post{}, fmt.Errorf("fragment %s: timestamp in the future", frag.FragmentID)
	}

	cta := DetectCTA(text)
	return domain.Post{
		ID:        PostID(profileID, text, postedAt),
		Text:      text,
		PostedAt:  postedAt,
		Reactions: ParseCount(frag.ReactionsRaw),
		Comments:  ParseCount(frag.CommentsRaw),
		Reposts:   ParseCount(frag.RepostsRaw),
		Hashtags:  ExtractHashtags(text),
		HasMedia:  frag.MediaPresent,
		HasCTA:    cta != domain.CTANone,
		CTAStyle:  cta,
		Tone:      ClassifyTone(text),
		Topics:    ExtractTopics(text),
	}, nil
}
