package scanner

import (
	"fmt"
	"time"

	"dupfinder/logging"
)

// NewProgressTracker initializes the progress tracker
func NewProgressTracker(totalFiles int, resultsChan chan ProcessResult) *ProgressTracker {
	tracker := &ProgressTracker{
		ticker:     time.NewTicker(500 * time.Millisecond),
		done:       make(chan bool),
		finished:   make(chan bool),
		totalFiles: totalFiles,
	}

	go tracker.displayProgress()
	go tracker.processResults(resultsChan)

	return tracker
}

// displayProgress shows the progress periodically
func (p *ProgressTracker) displayProgress() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.mu.Lock()
			if p.errors > 0 {
				fmt.Printf("\rProgress: %d/%d (Skipped: %d, Errors: %d)",
					p.processed, p.totalFiles, p.skipped, p.errors)
			} else {
				fmt.Printf("\rProgress: %d/%d (Skipped: %d)",
					p.processed, p.totalFiles, p.skipped)
			}
			p.mu.Unlock()
		}
	}
}

// processResults updates the tracker state based on processing results
func (p *ProgressTracker) processResults(resultsChan chan ProcessResult) {
	for result := range resultsChan {
		p.mu.Lock()
		p.processed++

		if result.Skipped {
			p.skipped++
		}

		if !result.Success {
			p.errors++
			if result.Error != nil {
				logging.LogImageProcessed(result.Path, false, result.Error.Error())
			}
		} else if !result.Skipped {
			logging.LogImageProcessed(result.Path, true, "")
		}

		p.mu.Unlock()
	}
	close(p.finished)
}

// Wait blocks until every queued result has been tallied. The results
// channel must be closed first.
func (p *ProgressTracker) Wait() {
	<-p.finished
}

// Stop ends the progress tracking
func (p *ProgressTracker) Stop() {
	p.ticker.Stop()
	p.done <- true
}

// Counts returns the processed, skipped and error tallies so far.
func (p *ProgressTracker) Counts() (processed, skipped, errors int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.skipped, p.errors
}

// PrintStartupInfo displays information about the scan before starting
func PrintStartupInfo(totalFiles int, opts Options) {
	fmt.Printf("Starting image indexing...\nTotal image files to process: %d\n", totalFiles)
	fmt.Printf("Force rewrite mode: %v\n", opts.ForceRewrite)

	if opts.SourcePrefix != "" {
		fmt.Printf("Source prefix: %s\n", opts.SourcePrefix)
	}

	if opts.DebugMode {
		fmt.Printf("Debug mode: enabled\n")
		logging.DebugLog("Found %d image files to process", totalFiles)
	}
}

// PrintCompletionStats displays statistics after scan completion
func PrintCompletionStats(tracker *ProgressTracker, startTime time.Time, opts Options) {
	elapsed := time.Since(startTime)
	processed, skipped, errors := tracker.Counts()

	if opts.DebugMode {
		logging.DebugLog("Scan completed in %v. Processed: %d, Skipped: %d, Errors: %d",
			elapsed, processed, skipped, errors)
	}

	fmt.Println("\nIndexing complete.")
	fmt.Printf("Processed %d images in %v.\n", processed, elapsed.Round(time.Second))

	if skipped > 0 {
		fmt.Printf("Skipped %d unchanged images.\n", skipped)
	}

	if errors > 0 {
		fmt.Printf("Encountered %d errors during indexing.\n", errors)
		fmt.Println("Check the log file for details.")
	}
}
