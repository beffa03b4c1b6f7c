package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dupfinder/types"
)

func testImageInfo(path, fp string) types.ImageInfo {
	return types.ImageInfo{
		Path:        path,
		Format:      "png",
		Width:       640,
		Height:      480,
		ModifiedAt:  time.Now().Format(time.RFC3339),
		Size:        1234,
		Fingerprint: fp,
		GridEdge:    8,
	}
}

func TestInitStoreAndLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "images.db")
	db, err := InitDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, StoreImageInfo(db, testImageInfo("/pics/a.png", "ffffffff00000000"), false))
	require.NoError(t, StoreImageInfo(db, testImageInfo("/pics/b.png", "ffffffff00000000"), false))
	require.NoError(t, StoreImageInfo(db, testImageInfo("/pics/c.png", "0000000000000000"), false))

	records, err := LoadFingerprints(db, "")
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Insertion order is preserved for stable grouping.
	assert.Equal(t, "/pics/a.png", records[0].Path)
	assert.Equal(t, "/pics/b.png", records[1].Path)
	assert.Equal(t, "/pics/c.png", records[2].Path)
	assert.Equal(t, 64, records[0].Fingerprint.Len())
	assert.Equal(t, "ffffffff00000000", records[0].Fingerprint.String())

	stats, err := GetScanStats(db, "")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalImages)
	assert.Equal(t, 2, stats.UniqueHashes)
}

func TestCheckImageExists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "images.db")
	db, err := InitDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	exists, _, err := CheckImageExists(db, "/pics/a.png", "")
	require.NoError(t, err)
	assert.False(t, exists)

	info := testImageInfo("/pics/a.png", "ffffffff00000000")
	require.NoError(t, StoreImageInfo(db, info, false))

	exists, modTime, err := CheckImageExists(db, "/pics/a.png", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, info.ModifiedAt, modTime)
}

func TestStoreRespectsForceRewrite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "images.db")
	db, err := InitDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, StoreImageInfo(db, testImageInfo("/pics/a.png", "aaaaaaaaaaaaaaaa"), false))

	// Without force the first row wins.
	require.NoError(t, StoreImageInfo(db, testImageInfo("/pics/a.png", "bbbbbbbbbbbbbbbb"), false))
	records, err := LoadFingerprints(db, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "aaaaaaaaaaaaaaaa", records[0].Fingerprint.String())

	// With force the row is replaced.
	require.NoError(t, StoreImageInfo(db, testImageInfo("/pics/a.png", "bbbbbbbbbbbbbbbb"), true))
	records, err = LoadFingerprints(db, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "bbbbbbbbbbbbbbbb", records[0].Fingerprint.String())
}

func TestSourcePrefixFiltering(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "images.db")
	db, err := InitDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	a := testImageInfo("/pics/a.png", "ffffffff00000000")
	a.SourcePrefix = "drive1"
	b := testImageInfo("/pics/b.png", "0000000000000000")
	b.SourcePrefix = "drive2"
	require.NoError(t, StoreImageInfo(db, a, false))
	require.NoError(t, StoreImageInfo(db, b, false))

	records, err := LoadFingerprints(db, "drive1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "/pics/a.png", records[0].Path)

	stats, err := GetScanStats(db, "drive2")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalImages)
}
