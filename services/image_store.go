package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Save(ctx context.Context, r io.Reader, ext string) (string, error)
}

// CloudinaryStore uploads images to a Cloudinary folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, r io.Reader, _ string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: s.folder})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: no URL returned")
	}
	return result.SecureURL, nil
}

// LocalStore writes images under Dir, which the router serves at /uploads.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func (s *LocalStore) Save(_ context.Context, r io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return strings.TrimRight(s.BaseURL, "/") + "/uploads/" + name, nil
}
