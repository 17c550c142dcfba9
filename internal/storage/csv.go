package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

// csvHeader fixes the export column order; consumers depend on it.
var csvHeader = []string{
	"post_id", "posted_at", "text", "reactions", "comments", "reposts",
	"hashtags", "has_cta", "cta_style", "tone",
}

// ExportCSV serializes one row per post: timestamps as ISO-8601,
// hashtags semicolon-joined.
func ExportCSV(w io.Writer, posts []domain.Post) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("storage: write csv header: %w", err)
	}
	for _, p := range posts {
		row := []string{
			p.ID,
			p.PostedAt.Format(time.RFC3339),
			p.Text,
			strconv.Itoa(p.Reactions),
			strconv.Itoa(p.Comments),
			strconv.Itoa(p.Reposts),
			strings.Join(p.Hashtags, ";"),
			strconv.FormatBool(p.HasCTA),
			string(p.CTAStyle),
			string(p.Tone),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("storage: write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSVFile writes the posts to a new file at path.
func ExportCSVFile(path string, posts []domain.Post) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", path, err)
	}
	defer f.Close()
	return ExportCSV(f, posts)
}
