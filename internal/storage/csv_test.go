package storage

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	posts := []domain.Post{
		{
			ID:        "abc123",
			Text:      "A post with, a comma\nand a newline",
			PostedAt:  time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
			Reactions: 12,
			Comments:  3,
			Reposts:   1,
			Hashtags:  []string{"#go", "#testing"},
			HasCTA:    true,
			CTAStyle:  domain.CTAQuestion,
			Tone:      domain.ToneEducational,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, posts))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"post_id", "posted_at", "text", "reactions", "comments", "reposts",
		"hashtags", "has_cta", "cta_style", "tone",
	}, records[0])

	row := records[1]
	assert.Equal(t, "abc123", row[0])
	assert.Equal(t, "2026-08-20T09:30:00Z", row[1])
	assert.Equal(t, "A post with, a comma\nand a newline", row[2])
	assert.Equal(t, "12", row[3])
	assert.Equal(t, "3", row[4])
	assert.Equal(t, "1", row[5])
	assert.Equal(t, "#go;#testing", row[6])
	assert.Equal(t, "true", row[7])
	assert.Equal(t, "question", row[8])
	assert.Equal(t, "educational", row[9])
}

func TestExportCSV_EmptyStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, nil))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}
