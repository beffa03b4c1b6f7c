package scanner

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dupfinder/database"
	"dupfinder/dedupe"
	"dupfinder/fingerprint"
	"dupfinder/logging"
	"dupfinder/types"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

// imageExtensions lists the file extensions the decoder understands.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImageFile reports whether the extension belongs to a supported image format.
func IsImageFile(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}

// CollectImageFiles walks a folder and returns the paths of all
// supported image files. filepath.Walk visits entries in lexical order,
// so the result is deterministic for a given tree.
func CollectImageFiles(folderPath string) ([]string, error) {
	var paths []string
	err := filepath.Walk(folderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logging.LogWarning("Skipping inaccessible path %s: %v", path, err)
			return nil
		}
		if !info.IsDir() && IsImageFile(filepath.Ext(path)) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot walk folder %s: %w", folderPath, err)
	}
	return paths, nil
}

// FingerprintFolder fingerprints every supported image under the folder
// and returns the records in walk order together with the files that
// could not be processed. Fingerprinting runs on a bounded worker pool;
// cancelling the context stops the batch between images and discards
// partial results.
func FingerprintFolder(ctx context.Context, opts Options) (*BatchResult, error) {
	paths, err := CollectImageFiles(opts.FolderPath)
	if err != nil {
		return nil, err
	}

	workers := opts.MaxWorkers
	if workers < 1 {
		workers = 1
	}

	// One slot per input path keeps walk order without any locking on
	// the happy path. Each slot is written exactly once by one worker.
	fps := make([]fingerprint.Fingerprint, len(paths))
	errs := make([]error, len(paths))

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fp, err := fingerprintFile(path, opts.GridEdge)
			if err != nil {
				errs[i] = err
				return nil
			}
			fps[i] = fp
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for i, path := range paths {
		if errs[i] != nil {
			logging.LogImageProcessed(path, false, errs[i].Error())
			result.Failures = append(result.Failures, FileError{Path: path, Err: errs[i]})
			continue
		}
		logging.LogImageProcessed(path, true, "")
		result.Records = append(result.Records, dedupe.Record{
			ID:          uuid.NewString(),
			Path:        path,
			Fingerprint: fps[i],
		})
	}
	return result, nil
}

// FindDuplicateGroups is the one-call form used by the dupes command:
// fingerprint a folder, then group near-identical images.
func FindDuplicateGroups(ctx context.Context, opts Options, threshold float64) ([]dedupe.Group, *BatchResult, error) {
	batch, err := FingerprintFolder(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return dedupe.FindGroups(batch.Records, threshold), batch, nil
}

// ScanAndStoreFolder scans a folder and stores image information in the database
func ScanAndStoreFolder(ctx context.Context, db *sql.DB, opts Options) error {
	paths, err := CollectImageFiles(opts.FolderPath)
	if err != nil {
		return err
	}

	PrintStartupInfo(len(paths), opts)

	resultsChan := make(chan ProcessResult, 100)
	tracker := NewProgressTracker(len(paths), resultsChan)
	defer tracker.Stop()

	// Capture-time metadata is best effort: without an exiftool binary
	// the scan falls back to file modification times.
	meta, err := NewMetadataReader()
	if err != nil {
		logging.DebugLog("exiftool unavailable, using file times only: %v", err)
	} else {
		defer meta.Close()
	}

	workers := opts.MaxWorkers
	if workers < 1 {
		workers = 1
	}

	// Inserts happen on worker goroutines; sqlite serializes writers,
	// but a single guard keeps the prepared statements simple.
	var dbMu sync.Mutex

	startTime := time.Now()
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for _, path := range paths {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			resultsChan <- processAndStoreImage(db, path, opts, meta, &dbMu)
			return nil
		})
	}
	err = p.Wait()
	close(resultsChan)
	tracker.Wait()

	PrintCompletionStats(tracker, startTime, opts)
	return err
}

// fingerprintFile reads and fingerprints a single image file.
func fingerprintFile(path string, gridEdge int) (fingerprint.Fingerprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fingerprint.Fingerprint{}, fmt.Errorf("cannot read file %s: %w", path, err)
	}
	fp, err := fingerprint.FromBytes(data, gridEdge)
	if err != nil {
		return fingerprint.Fingerprint{}, fmt.Errorf("failed to fingerprint %s: %w", path, err)
	}
	return fp, nil
}

// processAndStoreImage processes a single image and stores it in the database
func processAndStoreImage(db *sql.DB, path string, opts Options, meta *MetadataReader, dbMu *sync.Mutex) ProcessResult {
	result := ProcessResult{Path: path}

	fileInfo, err := os.Stat(path)
	if err != nil {
		result.Error = fmt.Errorf("cannot stat file %s: %w", path, err)
		return result
	}

	// Skip processing if the image already exists and hasn't been modified
	if !opts.ForceRewrite {
		dbMu.Lock()
		exists, storedModTime, err := database.CheckImageExists(db, path, opts.SourcePrefix)
		dbMu.Unlock()
		if err != nil {
			result.Error = err
			return result
		}
		if exists {
			storedTime, err := time.Parse(time.RFC3339, storedModTime)
			if err == nil && !fileInfo.ModTime().After(storedTime) {
				if opts.DebugMode {
					logging.DebugLog("Skipping unchanged image: %s", path)
				}
				result.Success = true
				result.Skipped = true
				return result
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Error = fmt.Errorf("cannot read file %s: %w", path, err)
		return result
	}

	img, err := fingerprint.Decode(data)
	if err != nil {
		result.Error = fmt.Errorf("failed to decode %s: %w", path, err)
		return result
	}

	fp := fingerprint.Compute(img, opts.GridEdge)
	bounds := img.Bounds()

	createdAt := ""
	if meta != nil {
		if captured, ok := meta.CaptureTime(path); ok {
			createdAt = captured.Format(time.RFC3339)
		}
	}

	gridEdge := opts.GridEdge
	if gridEdge <= 0 {
		gridEdge = fingerprint.DefaultGridEdge
	}

	imageInfo := types.ImageInfo{
		Path:         path,
		SourcePrefix: opts.SourcePrefix,
		Format:       strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		CreatedAt:    createdAt,
		ModifiedAt:   fileInfo.ModTime().Format(time.RFC3339),
		Size:         fileInfo.Size(),
		Fingerprint:  fp.String(),
		GridEdge:     gridEdge,
	}

	dbMu.Lock()
	err = database.StoreImageInfo(db, imageInfo, opts.ForceRewrite)
	dbMu.Unlock()
	if err != nil {
		result.Error = fmt.Errorf("cannot store data for %s: %w", path, err)
		return result
	}

	result.Success = true
	return result
}
