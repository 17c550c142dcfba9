package domain

import "time"

// Credentials holds the LinkedIn login pair. Supplied once per session
// and never persisted beyond the session driver's lifetime.
type Credentials struct {
	Email    string
	Password string
}

// Target represents one scraping task loaded from the input file.
type Target struct {
	ProfileID string
	MaxPosts  int
}

// ScrapeConfig is immutable for the duration of one scrape.
type ScrapeConfig struct {
	ProfileID string
	MaxPosts  int
	Headless  bool
	Debug     bool
}

// CTAStyle classifies the call-to-action of a post.
type CTAStyle string

const (
	CTAQuestion  CTAStyle = "question"
	CTADirectAsk CTAStyle = "direct_ask"
	CTALinkShare CTAStyle = "link_share"
	CTANone      CTAStyle = "none"
)

// Tone classifies the overall voice of a post. Posts with no lexicon
// signal are labelled unclassified rather than guessed.
type Tone string

const (
	ToneProfessional  Tone = "professional"
	ToneCasual        Tone = "casual"
	ToneInspirational Tone = "inspirational"
	ToneEducational   Tone = "educational"
	TonePromotional   Tone = "promotional"
	ToneUnclassified  Tone = "unclassified"
)

// Tones lists the classifiable tones in declaration order. Ties in
// lexicon scoring are broken by this order.
var Tones = []Tone{ToneProfessional, ToneCasual, ToneInspirational, ToneEducational, TonePromotional}

// RawPostFragment is the unvalidated extraction result of one DOM unit.
// It exists only inside the harvester; fragment IDs may collide across
// scroll reloads.
type RawPostFragment struct {
	FragmentID   string
	TextBlob     string
	ReactionsRaw string
	CommentsRaw  string
	RepostsRaw   string
	TimestampRaw string
	MediaPresent bool
}

// Post is the canonical, deduplicated post record.
type Post struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	PostedAt  time.Time `json:"posted_at"`
	Reactions int       `json:"reactions"`
	Comments  int       `json:"comments"`
	Reposts   int       `json:"reposts"`
	Hashtags  []string  `json:"hashtags,omitempty"`
	HasMedia  bool      `json:"has_media"`
	HasCTA    bool      `json:"has_cta"`
	CTAStyle  CTAStyle  `json:"cta_style"`
	Tone      Tone      `json:"tone"`
	Topics    []string  `json:"topics,omitempty"`
}

// Engagement is the weighted scoring currency shared by all metrics:
// comments and reposts signal stronger engagement than reactions.
func (p Post) Engagement() int {
	return p.Reactions + 2*p.Comments + 3*p.Reposts
}

// ScrapeResult is the harvester's output, owned by the caller and
// immutable thereafter. Posts are ordered most recent first.
type ScrapeResult struct {
	ProfileID string    `json:"profile_id"`
	Posts     []Post    `json:"posts"`
	ScrapedAt time.Time `json:"scraped_at"`
	Truncated bool      `json:"truncated"`
}

// KeywordScore is one ranked keyword entry.
type KeywordScore struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// HourScore is one ranked posting-hour entry.
type HourScore struct {
	Hour           int     `json:"hour"`
	MeanEngagement float64 `json:"mean_engagement"`
}

// HashtagStat aggregates one hashtag across all posts containing it.
type HashtagStat struct {
	Frequency      int     `json:"frequency"`
	MeanEngagement float64 `json:"mean_engagement"`
}

// MetricSnapshot holds every derived statistic for one scrape. It is
// recomputed fresh per scrape and never mutated in place.
type MetricSnapshot struct {
	TopKeywords                 []KeywordScore         `json:"top_keywords"`
	ToneDistribution            map[Tone]float64       `json:"tone_distribution"`
	CTAEffectiveness            map[CTAStyle]float64   `json:"cta_effectiveness"`
	BestPostingHours            []HourScore            `json:"best_posting_hours"`
	HashtagStats                map[string]HashtagStat `json:"hashtag_stats"`
	LengthEngagementCorrelation float64                `json:"length_engagement_correlation"`
	TopPosts                    []Post                 `json:"top_posts"`
}

// LengthRange is the min/max character length over a set of posts.
type LengthRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// StyleProfile is the compact summary handed to the generation step.
// A zero-valued profile means "insufficient data".
type StyleProfile struct {
	DominantTone      Tone        `json:"dominant_tone"`
	PreferredCTAStyle CTAStyle    `json:"preferred_cta_style"`
	TypicalHashtags   []string    `json:"typical_hashtags,omitempty"`
	TypicalLength     LengthRange `json:"typical_length"`
	BestHour          int         `json:"best_hour"`
	SamplePosts       []Post      `json:"sample_posts,omitempty"`
}
