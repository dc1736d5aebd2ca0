package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), []string{"png", "pdf", "txt"})
	require.NoError(t, err)
	return store
}

// buildUploads assembles multipart file headers the way an HTTP request
// would deliver them.
func buildUploads(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile("assets", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["assets"]
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "report.pdf", Sanitize("report.pdf"))
	assert.Equal(t, "passwd", Sanitize("../../etc/passwd"))
	assert.Equal(t, "my_file_1.txt", Sanitize("my file 1.txt"))
	assert.Equal(t, "notes.txt", Sanitize("C:\\Users\\me\\notes.txt"))
	assert.Equal(t, "upload", Sanitize(""))
	assert.Equal(t, "upload", Sanitize(".."))
}

func TestSaveNamesFileAfterProject(t *testing.T) {
	store := newTestStore(t)
	uploads := buildUploads(t, map[string][]byte{"diagram.png": []byte("fake image data")})

	asset, err := store.Save(7, uploads[0])
	require.NoError(t, err)

	assert.Equal(t, "diagram.png", asset.FileName)
	assert.Equal(t, "png", asset.FileType)
	assert.Equal(t, int64(7), asset.ProjectID)
	assert.Equal(t, "7_diagram.png", filepath.Base(asset.StorageLocation))

	data, err := os.ReadFile(asset.StorageLocation)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image data"), data)
}

func TestSaveRoundsSizeUpToKilobytes(t *testing.T) {
	store := newTestStore(t)
	uploads := buildUploads(t, map[string][]byte{"tiny.txt": []byte("x")})

	asset, err := store.Save(1, uploads[0])
	require.NoError(t, err)

	assert.Equal(t, int64(1), asset.FileSizeKB)
}

func TestSaveUploadsRejectsDisallowedExtension(t *testing.T) {
	store := newTestStore(t)
	uploads := buildUploads(t, map[string][]byte{"malware.exe": []byte("nope")})

	assets, results, err := store.SaveUploads(3, uploads)
	require.NoError(t, err)

	assert.Empty(t, assets)
	require.Len(t, results, 1)
	assert.False(t, results[0].Accepted)
	assert.Contains(t, results[0].Reason, ".exe")
}

func TestSaveUploadsMixedBatch(t *testing.T) {
	store := newTestStore(t)
	uploads := buildUploads(t, map[string][]byte{
		"report.pdf": []byte("pdf bytes"),
		"tool.exe":   []byte("nope"),
	})

	assets, results, err := store.SaveUploads(9, uploads)
	require.NoError(t, err)

	require.Len(t, assets, 1)
	assert.Equal(t, "report.pdf", assets[0].FileName)
	require.Len(t, results, 2)

	accepted := 0
	for _, res := range results {
		if res.Accepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestAllowed(t *testing.T) {
	store := newTestStore(t)

	assert.True(t, store.Allowed("photo.PNG"))
	assert.False(t, store.Allowed("script.sh"))
	assert.False(t, store.Allowed("no-extension"))
}

func TestSaveUploadsDisambiguatesCollidingNames(t *testing.T) {
	store := newTestStore(t)
	uploads := buildUploads(t, map[string][]byte{
		"a b.png": []byte("first"),
		"a_b.png": []byte("second"),
	})

	assets, results, err := store.SaveUploads(4, uploads)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	require.Len(t, results, 2)

	assert.NotEqual(t, assets[0].FileName, assets[1].FileName)
	assert.NotEqual(t, assets[0].StorageLocation, assets[1].StorageLocation)

	for _, asset := range assets {
		data, err := os.ReadFile(asset.StorageLocation)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestSaveUploadsDisambiguatesAgainstExistingFiles(t *testing.T) {
	store := newTestStore(t)

	first, _, err := store.SaveUploads(4, buildUploads(t, map[string][]byte{"notes.txt": []byte("v1")}))
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "notes.txt", first[0].FileName)

	second, _, err := store.SaveUploads(4, buildUploads(t, map[string][]byte{"notes.txt": []byte("v2")}))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "notes_2.txt", second[0].FileName)
	assert.NotEqual(t, first[0].StorageLocation, second[0].StorageLocation)

	data, err := os.ReadFile(first[0].StorageLocation)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)
}

func TestRemoveAll(t *testing.T) {
	store := newTestStore(t)
	uploads := buildUploads(t, map[string][]byte{"notes.txt": []byte("hello")})

	assets, _, err := store.SaveUploads(2, uploads)
	require.NoError(t, err)
	require.Len(t, assets, 1)

	store.RemoveAll(assets)

	_, err = os.Stat(assets[0].StorageLocation)
	assert.True(t, os.IsNotExist(err))
}
