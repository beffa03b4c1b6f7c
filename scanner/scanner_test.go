package scanner

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dupfinder/fingerprint"
)

func writePNG(t *testing.T, path string, seed uint8) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := uint8(0)
			if (x+int(seed))%8 < 4 {
				v = 255
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile(".jpg"))
	assert.True(t, IsImageFile(".PNG"))
	assert.True(t, IsImageFile(".webp"))
	assert.False(t, IsImageFile(".txt"))
	assert.False(t, IsImageFile(""))
}

func TestCollectImageFilesOrder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 0)
	writePNG(t, filepath.Join(dir, "a.png"), 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0644))

	paths, err := CollectImageFiles(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "a.png", filepath.Base(paths[0]))
	assert.Equal(t, "b.png", filepath.Base(paths[1]))
}

func TestFingerprintFolderIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 0)
	writePNG(t, filepath.Join(dir, "b.png"), 0)
	writePNG(t, filepath.Join(dir, "c.png"), 4)
	// A file with an image extension but garbage content must fail on
	// its own without taking the batch down.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not an image"), 0644))

	batch, err := FingerprintFolder(context.Background(), Options{
		FolderPath: dir,
		GridEdge:   8,
		MaxWorkers: 4,
	})
	require.NoError(t, err)

	require.Len(t, batch.Records, 3)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "broken.jpg", filepath.Base(batch.Failures[0].Path))
	assert.Error(t, batch.Failures[0].Err)

	// Records keep walk order and unique identifiers.
	assert.Equal(t, "a.png", filepath.Base(batch.Records[0].Path))
	assert.Equal(t, "b.png", filepath.Base(batch.Records[1].Path))
	assert.Equal(t, "c.png", filepath.Base(batch.Records[2].Path))
	assert.NotEqual(t, batch.Records[0].ID, batch.Records[1].ID)

	// Identical files yield identical fingerprints.
	assert.Equal(t, 100.0, fingerprint.Similarity(batch.Records[0].Fingerprint, batch.Records[1].Fingerprint))
}

func TestFingerprintFolderCancelled(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FingerprintFolder(ctx, Options{FolderPath: dir, MaxWorkers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindDuplicateGroups(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 0)
	writePNG(t, filepath.Join(dir, "a_copy.png"), 0)
	writePNG(t, filepath.Join(dir, "other.png"), 4)

	groups, batch, err := FindDuplicateGroups(context.Background(), Options{
		FolderPath: dir,
		GridEdge:   8,
		MaxWorkers: 2,
	}, 90.0)
	require.NoError(t, err)
	require.Len(t, batch.Records, 3)

	require.Len(t, groups, 1)
	assert.Equal(t, "a.png", filepath.Base(groups[0].Keep().Path))
	require.Len(t, groups[0].Duplicates(), 1)
	assert.Equal(t, "a_copy.png", filepath.Base(groups[0].Duplicates()[0].Path))
}
