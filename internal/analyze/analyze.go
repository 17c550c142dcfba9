// Package analyze derives engagement and content-style statistics from
// a ScrapeResult. Every function here is a pure transform: no I/O,
// deterministic given identical input, and defined on empty input.
package analyze

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

// TopKeywordCount caps the keyword ranking length.
const TopKeywordCount = 20

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}']+`)

// Engine computes MetricSnapshots. The zero value is usable; options
// exist to widen the stop-word list.
type Engine struct {
	extraStopwords map[string]struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithStopwords merges extra stop-words into the built-in list.
func WithStopwords(words []string) Option {
	return func(e *Engine) {
		if e.extraStopwords == nil {
			e.extraStopwords = make(map[string]struct{}, len(words))
		}
		for _, w := range words {
			e.extraStopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// NewEngine creates a metric engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Analyze produces a fresh MetricSnapshot from a scrape result.
func (e *Engine) Analyze(result *domain.ScrapeResult) domain.MetricSnapshot {
	posts := result.Posts
	return domain.MetricSnapshot{
		TopKeywords:                 e.topKeywords(posts),
		ToneDistribution:            toneDistribution(posts),
		CTAEffectiveness:            ctaEffectiveness(posts),
		BestPostingHours:            bestPostingHours(posts),
		HashtagStats:                hashtagStats(posts),
		LengthEngagementCorrelation: lengthEngagementCorrelation(posts),
		TopPosts:                    topPosts(posts),
	}
}

// topKeywords scores each non-stop-word token by its frequency weighted
// by the engagement of the posts it appears in, descending, ties broken
// alphabetically.
func (e *Engine) topKeywords(posts []domain.Post) []domain.KeywordScore {
	scores := make(map[string]float64)
	for _, p := range posts {
		engagement := float64(p.Engagement())
		for _, tok := range tokenRe.FindAllString(strings.ToLower(p.Text), -1) {
			tok = strings.Trim(tok, "'")
			if len(tok) < 2 || e.isStopword(tok) {
				continue
			}
			// A zero-engagement post still counts the term once.
			scores[tok] += 1 + engagement
		}
	}

	ranked := make([]domain.KeywordScore, 0, len(scores))
	for term, score := range scores {
		ranked = append(ranked, domain.KeywordScore{Term: term, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Term < ranked[j].Term
	})
	if len(ranked) > TopKeywordCount {
		ranked = ranked[:TopKeywordCount]
	}
	return ranked
}

func (e *Engine) isStopword(tok string) bool {
	if _, ok := stopwords[tok]; ok {
		return true
	}
	_, ok := e.extraStopwords[tok]
	return ok
}

// toneDistribution returns the fraction of posts per tone. Fractions sum
// to 1.0 for non-empty input; empty input yields an all-zero map.
func toneDistribution(posts []domain.Post) map[domain.Tone]float64 {
	dist := make(map[domain.Tone]float64, len(domain.Tones)+1)
	for _, t := range domain.Tones {
		dist[t] = 0
	}
	dist[domain.ToneUnclassified] = 0
	if len(posts) == 0 {
		return dist
	}
	for _, p := range posts {
		dist[p.Tone]++
	}
	n := float64(len(posts))
	for t := range dist {
		dist[t] /= n
	}
	return dist
}

// ctaEffectiveness maps each CTA style to the mean engagement of posts
// using it. Styles with zero posts report 0, never a missing entry.
func ctaEffectiveness(posts []domain.Post) map[domain.CTAStyle]float64 {
	styles := []domain.CTAStyle{domain.CTAQuestion, domain.CTADirectAsk, domain.CTALinkShare, domain.CTANone}
	sums := make(map[domain.CTAStyle]float64, len(styles))
	counts := make(map[domain.CTAStyle]int, len(styles))
	for _, p := range posts {
		sums[p.CTAStyle] += float64(p.Engagement())
		counts[p.CTAStyle]++
	}
	out := make(map[domain.CTAStyle]float64, len(styles))
	for _, s := range styles {
		if counts[s] > 0 {
			out[s] = sums[s] / float64(counts[s])
		} else {
			out[s] = 0
		}
	}
	return out
}

// bestPostingHours ranks hour-of-day buckets by mean engagement,
// descending. Hours with no posts are excluded entirely so sparse hours
// do not bias the ranking.
func bestPostingHours(posts []domain.Post) []domain.HourScore {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, p := range posts {
		h := p.PostedAt.Hour()
		sums[h] += float64(p.Engagement())
		counts[h]++
	}
	ranked := make([]domain.HourScore, 0, len(sums))
	for h, sum := range sums {
		ranked = append(ranked, domain.HourScore{Hour: h, MeanEngagement: sum / float64(counts[h])})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].MeanEngagement != ranked[j].MeanEngagement {
			return ranked[i].MeanEngagement > ranked[j].MeanEngagement
		}
		return ranked[i].Hour < ranked[j].Hour
	})
	return ranked
}

// hashtagStats reports frequency and mean engagement per distinct
// hashtag (case-insensitive).
func hashtagStats(posts []domain.Post) map[string]domain.HashtagStat {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range posts {
		for _, tag := range p.Hashtags {
			key := strings.ToLower(tag)
			sums[key] += float64(p.Engagement())
			counts[key]++
		}
	}
	out := make(map[string]domain.HashtagStat, len(counts))
	for tag, n := range counts {
		out[tag] = domain.HashtagStat{Frequency: n, MeanEngagement: sums[tag] / float64(n)}
	}
	return out
}

// lengthEngagementCorrelation is the Pearson correlation between post
// character length and total engagement. Fewer than two posts, or zero
// variance on either side, yields the neutral 0.
func lengthEngagementCorrelation(posts []domain.Post) float64 {
	if len(posts) < 2 {
		return 0
	}
	n := float64(len(posts))
	var sumX, sumY float64
	for _, p := range posts {
		sumX += float64(len(p.Text))
		sumY += float64(p.Engagement())
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for _, p := range posts {
		dx := float64(len(p.Text)) - meanX
		dy := float64(p.Engagement()) - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// topPosts stable-sorts by total engagement descending, ties broken by
// more recent PostedAt first.
func topPosts(posts []domain.Post) []domain.Post {
	out := make([]domain.Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := out[i].Engagement(), out[j].Engagement()
		if ei != ej {
			return ei > ej
		}
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out
}
