// Package styleprofile condenses a MetricSnapshot plus the top posts
// into the compact summary consumed by the generation step.
package styleprofile

import (
	"sort"
	"strings"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

// TypicalHashtagCount caps the hashtag list in a profile.
const TypicalHashtagCount = 5

// Build aggregates the snapshot into a StyleProfile. Pure and
// deterministic; empty input yields a zero-valued profile that
// downstream consumers must treat as "insufficient data".
func Build(snapshot domain.MetricSnapshot, result *domain.ScrapeResult, topN int) domain.StyleProfile {
	if result == nil || len(result.Posts) == 0 {
		return domain.StyleProfile{}
	}

	samples := snapshot.TopPosts
	if topN < len(samples) {
		samples = samples[:topN]
	}

	profile := domain.StyleProfile{
		DominantTone:      dominantTone(snapshot.ToneDistribution),
		PreferredCTAStyle: preferredCTA(snapshot),
		TypicalHashtags:   typicalHashtags(snapshot.HashtagStats),
		TypicalLength:     lengthRange(samples),
		SamplePosts:       samples,
	}
	if len(snapshot.BestPostingHours) > 0 {
		profile.BestHour = snapshot.BestPostingHours[0].Hour
	}
	return profile
}

// dominantTone picks the highest-fraction tone; ties resolve in tone
// declaration order, the same order normalization uses.
func dominantTone(dist map[domain.Tone]float64) domain.Tone {
	best := domain.ToneUnclassified
	bestFrac := dist[domain.ToneUnclassified]
	for _, t := range domain.Tones {
		if dist[t] > bestFrac {
			best = t
			bestFrac = dist[t]
		}
	}
	return best
}

// preferredCTA picks the most effective CTA style among the styles the
// profile actually uses; a profile that never asks anything gets none.
func preferredCTA(snapshot domain.MetricSnapshot) domain.CTAStyle {
	used := make(map[domain.CTAStyle]bool)
	for _, p := range snapshot.TopPosts {
		used[p.CTAStyle] = true
	}

	best := domain.CTANone
	bestMean := -1.0
	for _, s := range []domain.CTAStyle{domain.CTAQuestion, domain.CTADirectAsk, domain.CTALinkShare} {
		if !used[s] {
			continue
		}
		if mean := snapshot.CTAEffectiveness[s]; mean > bestMean {
			best = s
			bestMean = mean
		}
	}
	return best
}

// typicalHashtags returns the top hashtags by frequency, ties broken by
// mean engagement then alphabetically for determinism.
func typicalHashtags(stats map[string]domain.HashtagStat) []string {
	tags := make([]string, 0, len(stats))
	for tag := range stats {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		si, sj := stats[tags[i]], stats[tags[j]]
		if si.Frequency != sj.Frequency {
			return si.Frequency > sj.Frequency
		}
		if si.MeanEngagement != sj.MeanEngagement {
			return si.MeanEngagement > sj.MeanEngagement
		}
		return strings.Compare(tags[i], tags[j]) < 0
	})
	if len(tags) > TypicalHashtagCount {
		tags = tags[:TypicalHashtagCount]
	}
	return tags
}

func lengthRange(posts []domain.Post) domain.LengthRange {
	if len(posts) == 0 {
		return domain.LengthRange{}
	}
	r := domain.LengthRange{Min: len(posts[0].Text), Max: len(posts[0].Text)}
	for _, p := range posts[1:] {
		if n := len(p.Text); n < r.Min {
			r.Min = n
		} else if n > r.Max {
			r.Max = n
		}
	}
	return r
}
