package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"portfolio-backend-refactor/pkg/models"
)

// FileStore writes uploaded project assets to a local directory. Saved
// files are named "{projectID}_{sanitizedName}" so one project's files
// never collide with another's.
type FileStore struct {
	dir     string
	allowed map[string]bool
}

// NewFileStore creates the upload directory if needed and returns a store
// accepting only the listed extensions (lowercase, no dot).
func NewFileStore(dir string, allowedExtensions []string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	return &FileStore{dir: dir, allowed: allowed}, nil
}

// Sanitize reduces a client-supplied filename to its base name and strips
// characters outside [A-Za-z0-9._-].
func Sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	s := b.String()
	if s == "" || s == "." || s == ".." {
		return "upload"
	}
	return s
}

// Allowed reports whether the filename's extension is accepted.
func (f *FileStore) Allowed(filename string) bool {
	return f.allowed[extension(filename)]
}

// extension returns the lowercase extension without the dot, or "unknown"
// when there is none. The same value is recorded as the asset file type.
func extension(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "unknown"
	}
	return ext
}

// Save writes one upload for a project and returns its asset metadata.
// Size is rounded up to whole kilobytes.
func (f *FileStore) Save(projectID int64, fh *multipart.FileHeader) (*models.Asset, error) {
	return f.save(projectID, fh, Sanitize(fh.Filename))
}

func (f *FileStore) save(projectID int64, fh *multipart.FileHeader, name string) (*models.Asset, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	stored := fmt.Sprintf("%d_%s", projectID, name)
	location := filepath.Join(f.dir, stored)

	dst, err := os.Create(location)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", location, err)
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(location)
		return nil, fmt.Errorf("failed to write %s: %w", location, err)
	}

	return &models.Asset{
		ProjectID:       projectID,
		FileName:        name,
		FileType:        extension(name),
		FileSizeKB:      (written + 1023) / 1024,
		StorageLocation: location,
		DateUploaded:    time.Now(),
	}, nil
}

// SaveUploads saves a batch of uploads, skipping files with disallowed
// extensions. Every file gets an entry in results; accepted files also
// appear in the returned asset list. Names that collide after
// sanitization, within the batch or with files already on disk, get a
// numeric suffix so no two asset rows share a storage location.
func (f *FileStore) SaveUploads(projectID int64, files []*multipart.FileHeader) ([]models.Asset, []models.UploadResult, error) {
	var assets []models.Asset
	var results []models.UploadResult
	taken := make(map[string]bool)

	for _, fh := range files {
		if !f.Allowed(fh.Filename) {
			results = append(results, models.UploadResult{
				FileName: fh.Filename,
				Accepted: false,
				Reason:   fmt.Sprintf("file type .%s is not allowed", extension(fh.Filename)),
			})
			continue
		}

		asset, err := f.save(projectID, fh, f.uniqueName(projectID, Sanitize(fh.Filename), taken))
		if err != nil {
			f.RemoveAll(assets)
			return nil, nil, err
		}

		assets = append(assets, *asset)
		results = append(results, models.UploadResult{
			FileName: asset.FileName,
			Accepted: true,
		})
	}

	return assets, results, nil
}

// uniqueName returns name, or name with a numeric suffix before the
// extension when the stored path is already claimed by this batch or by
// an existing file.
func (f *FileStore) uniqueName(projectID int64, name string, taken map[string]bool) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 2; ; i++ {
		stored := fmt.Sprintf("%d_%s", projectID, candidate)
		if !taken[stored] && !f.exists(stored) {
			taken[stored] = true
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}

func (f *FileStore) exists(stored string) bool {
	_, err := os.Stat(filepath.Join(f.dir, stored))
	return err == nil
}

// RemoveAll deletes the physical files of the given assets. Used to undo
// writes when the surrounding transaction rolls back.
func (f *FileStore) RemoveAll(assets []models.Asset) {
	for _, a := range assets {
		os.Remove(a.StorageLocation)
	}
}
