package dashboard

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/qepting91/linkedin-analyzer/internal/analyze"
	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

// StartServer serves the analysis charts over HTTP. The data file is
// reloaded per request so a scrape running in the background shows up
// on refresh. Display only: no fragment or session access here.
func StartServer(dataFile string, port string) error {
	engine := analyze.NewEngine()

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		posts := loadData(dataFile)
		snapshot := engine.Analyze(&domain.ScrapeResult{Posts: posts, ScrapedAt: time.Now()})

		// 1. Tone distribution
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Tone Distribution"}),
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		)
		var pieItems []opts.PieData
		for tone, frac := range snapshot.ToneDistribution {
			if frac > 0 {
				pieItems = append(pieItems, opts.PieData{Name: string(tone), Value: frac})
			}
		}
		pie.AddSeries("Tones", pieItems)

		// 2. Best posting hours
		hourBar := charts.NewBar()
		hourBar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Mean Engagement by Hour"}))
		var hourX []string
		var hourY []opts.BarData
		for _, h := range snapshot.BestPostingHours {
			hourX = append(hourX, fmt.Sprintf("%02d:00", h.Hour))
			hourY = append(hourY, opts.BarData{Value: h.MeanEngagement})
		}
		hourBar.SetXAxis(hourX).AddSeries("Engagement", hourY)

		// 3. Top keywords
		kwBar := charts.NewBar()
		kwBar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top Keywords"}))
		var kwX []string
		var kwY []opts.BarData
		for _, kw := range snapshot.TopKeywords {
			kwX = append(kwX, kw.Term)
			kwY = append(kwY, opts.BarData{Value: kw.Score})
		}
		kwBar.SetXAxis(kwX).AddSeries("Score", kwY)

		// 4. Hashtag effectiveness
		tagBar := charts.NewBar()
		tagBar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Hashtag Mean Engagement"}))
		tags := make([]string, 0, len(snapshot.HashtagStats))
		for tag := range snapshot.HashtagStats {
			tags = append(tags, tag)
		}
		sort.Slice(tags, func(i, j int) bool {
			return snapshot.HashtagStats[tags[i]].MeanEngagement > snapshot.HashtagStats[tags[j]].MeanEngagement
		})
		var tagX []string
		var tagY []opts.BarData
		for _, tag := range tags {
			tagX = append(tagX, tag)
			tagY = append(tagY, opts.BarData{Value: snapshot.HashtagStats[tag].MeanEngagement})
		}
		tagBar.SetXAxis(tagX).AddSeries("Engagement", tagY)

		pie.Render(w)
		hourBar.Render(w)
		kwBar.Render(w)
		tagBar.Render(w)
	})

	http.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		posts := loadData(dataFile)
		snapshot := engine.Analyze(&domain.ScrapeResult{Posts: posts, ScrapedAt: time.Now()})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshot)
	})

	return http.ListenAndServe(":"+port, nil)
}

func loadData(path string) []domain.Post {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var posts []domain.Post
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var p domain.Post
		if err := json.Unmarshal(scanner.Bytes(), &p); err == nil {
			posts = append(posts, p)
		}
	}
	return posts
}
