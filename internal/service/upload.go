package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

const (
	DefaultMaxUploadBytes = 5 << 20
	MaxFilesPerUpload     = 10
	UploadURLPrefix       = "/uploads"
)

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrValidation)
var ErrNotAnImage = fmt.Errorf("%w: only jpeg, png, gif and webp images are accepted", ErrValidation)
var ErrBadFilename = fmt.Errorf("%w: invalid file name", ErrValidation)

type StoredFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	ContentType  string `json:"contentType"`
}

type StorageInfo struct {
	Type         string   `json:"type"`
	Directory    string   `json:"directory"`
	MaxFileSize  int64    `json:"maxFileSize"`
	MaxFiles     int      `json:"maxFiles"`
	AllowedTypes []string `json:"allowedTypes"`
	FileCount    int      `json:"fileCount"`
	TotalBytes   int64    `json:"totalBytes"`
}

// UploadService stores product images in a local directory served under
// UploadURLPrefix.
type UploadService struct {
	Dir      string
	MaxBytes int64
}

func NewUploadService(dir string, maxBytes int64) (*UploadService, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir %s: %w", dir, err)
	}
	return &UploadService{Dir: dir, MaxBytes: maxBytes}, nil
}

func allowedTypes() []string {
	out := make([]string, 0, len(imageTypes))
	for t := range imageTypes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Save sniffs the content type of r, rejects anything that is not an
// image, and writes it under a fresh name.
func (s *UploadService) Save(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error) {
	l := logging.FromContext(ctx).With("svc", "upload.save")

	data, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.MaxBytes {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, validation("file is empty")
	}

	ctype := http.DetectContentType(data)
	ext, ok := imageTypes[ctype]
	if !ok {
		l.Warn("upload_rejected", "reason", "not an image", "content_type", ctype, "name", originalName)
		return nil, ErrNotAnImage
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return nil, persistence("write upload", err)
	}

	l.Info("upload_success", "filename", name, "size", len(data))
	return &StoredFile{
		Filename:     name,
		OriginalName: originalName,
		URL:          UploadURLPrefix + "/" + name,
		Size:         int64(len(data)),
		ContentType:  ctype,
	}, nil
}

func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}

func (s *UploadService) Delete(ctx context.Context, filename string) error {
	if !validFilename(filename) {
		return ErrBadFilename
	}
	if err := os.Remove(filepath.Join(s.Dir, filename)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file %s: %w", filename, ErrNotFound)
		}
		return persistence("delete upload", err)
	}
	logging.FromContext(ctx).Info("upload_deleted", "filename", filename)
	return nil
}

func (s *UploadService) Info(ctx context.Context) (*StorageInfo, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, persistence("read upload dir", err)
	}

	info := &StorageInfo{
		Type:         "local",
		Directory:    UploadURLPrefix,
		MaxFileSize:  s.MaxBytes,
		MaxFiles:     MaxFilesPerUpload,
		AllowedTypes: allowedTypes(),
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		info.FileCount++
		info.TotalBytes += fi.Size()
	}
	return info, nil
}
