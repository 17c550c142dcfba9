package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

// WriterService owns the NDJSON data file the dashboard reads; a single
// goroutine appends posts as they arrive on the channel.
type WriterService struct {
	FilePath string
}

func (w *WriterService) Start(wg *sync.WaitGroup, input <-chan domain.Post) {
	defer wg.Done()

	f, err := os.OpenFile(w.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)

	for post := range input {
		// Write as NDJSON
		enc.Encode(post)
	}
}
