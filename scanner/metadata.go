package scanner

import (
	"sync"
	"time"

	exiftool "github.com/barasher/go-exiftool"

	"dupfinder/logging"
)

// exifTimeLayout is the timestamp format exiftool emits for capture times.
const exifTimeLayout = "2006:01:02 15:04:05"

// MetadataReader extracts capture-time metadata through a stationary
// exiftool process. The underlying process handles one request at a
// time, so calls are serialized.
type MetadataReader struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

// NewMetadataReader starts an exiftool process. Fails when the exiftool
// binary is not installed; callers treat that as "no metadata".
func NewMetadataReader() (*MetadataReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, err
	}
	return &MetadataReader{et: et}, nil
}

// CaptureTime returns the DateTimeOriginal of an image, if present.
func (m *MetadataReader) CaptureTime(path string) (time.Time, bool) {
	m.mu.Lock()
	metas := m.et.ExtractMetadata(path)
	m.mu.Unlock()

	if len(metas) == 0 || metas[0].Err != nil {
		return time.Time{}, false
	}

	raw, err := metas[0].GetString("DateTimeOriginal")
	if err != nil {
		return time.Time{}, false
	}

	captured, err := time.ParseInLocation(exifTimeLayout, raw, time.Local)
	if err != nil {
		logging.DebugLog("Unparseable DateTimeOriginal %q in %s", raw, path)
		return time.Time{}, false
	}

	return captured, true
}

// Close shuts the exiftool process down.
func (m *MetadataReader) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.et.Close()
}
