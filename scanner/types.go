package scanner

import (
	"sync"
	"time"

	"dupfinder/dedupe"
)

// Options defines the options for a batch run
type Options struct {
	FolderPath   string
	SourcePrefix string
	ForceRewrite bool
	DebugMode    bool
	GridEdge     int
	MaxWorkers   int
}

// ProcessResult holds the result of processing an image
type ProcessResult struct {
	Path    string
	Success bool
	Skipped bool
	Error   error
}

// FileError pairs a file path with the error that made it unusable
type FileError struct {
	Path string
	Err  error
}

// BatchResult is the outcome of fingerprinting a folder: one record per
// decodable image, in walk order, plus the files that failed. A failed
// file never removes the rest of the batch from the result.
type BatchResult struct {
	Records  []dedupe.Record
	Failures []FileError
}

// ProgressTracker tracks progress of a batch operation
type ProgressTracker struct {
	processed  int
	skipped    int
	errors     int
	ticker     *time.Ticker
	done       chan bool
	finished   chan bool
	mu         sync.Mutex
	totalFiles int
}
