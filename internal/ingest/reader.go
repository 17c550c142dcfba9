package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

// Profile slugs: the path segment after /in/, or a full profile URL.
var slugRegex = regexp.MustCompile(`^[A-Za-z0-9%_-]{3,100}$`)

// LoadTargets reads the target profiles file: one row per profile with
// columns profile,max_posts. Invalid rows are skipped (fail-soft).
func LoadTargets(path string) ([]domain.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Wrap in BOM stripper
	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1

	var targets []domain.Target
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		line++
		if line == 1 {
			continue // Skip header
		}
		if len(record) == 0 {
			continue
		}

		// Validation (Fail-Soft)
		profile := strings.TrimSpace(record[0])
		if !strings.HasPrefix(profile, "http") && !slugRegex.MatchString(profile) {
			continue
		}

		maxPosts := 0
		if len(record) > 1 {
			maxPosts, _ = strconv.Atoi(strings.TrimSpace(record[1]))
		}
		if maxPosts <= 0 {
			maxPosts = 25
		}

		targets = append(targets, domain.Target{
			ProfileID: profile,
			MaxPosts:  maxPosts,
		})
	}
	return targets, nil
}

// LoadStopwords reads extra stop-words (one per row, first column) to
// merge into the keyword ranking's built-in list.
func LoadStopwords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1
	var words []string
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if line > 0 && len(rec) > 0 {
			if w := strings.ToLower(strings.TrimSpace(rec[0])); w != "" {
				words = append(words, w)
			}
		}
		line++
	}
	return words, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
