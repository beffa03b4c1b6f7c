package types

// ImageInfo holds the metadata and fingerprint of one indexed image
type ImageInfo struct {
	ID           int64  `json:"id"`
	Path         string `json:"path"`
	SourcePrefix string `json:"source_prefix"`
	Format       string `json:"format"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	CreatedAt    string `json:"created_at"`
	ModifiedAt   string `json:"modified_at"`
	Size         int64  `json:"size"`
	Fingerprint  string `json:"fingerprint"`
	GridEdge     int    `json:"grid_edge"`
}

// ImageMatch holds one search result with its similarity score
type ImageMatch struct {
	Path         string
	SourcePrefix string
	Similarity   float64
}
