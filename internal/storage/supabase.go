package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseConfig holds Supabase storage connection parameters.
type SupabaseConfig struct {
	URL            string `mapstructure:"url"`
	ServiceRoleKey string `mapstructure:"service_role_key"`
	Bucket         string `mapstructure:"bucket"`
}

// SupabaseStore implements BlobStore on a Supabase storage bucket.
type SupabaseStore struct {
	client  *storage_go.Client
	bucket  string
	baseURL string
}

func NewSupabaseStore(cfg SupabaseConfig) (*SupabaseStore, error) {
	baseURL := strings.TrimSuffix(cfg.URL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase storage URL is required")
	}
	client := storage_go.NewClient(baseURL+"/storage/v1", cfg.ServiceRoleKey, nil)

	return &SupabaseStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

func (s *SupabaseStore) Upload(_ context.Context, path, contentType string, data io.Reader) (string, error) {
	upsert := false
	_, err := s.client.UploadFile(s.bucket, path, data, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.PublicURL(path), nil
}

func (s *SupabaseStore) Delete(_ context.Context, path string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{path}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *SupabaseStore) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}
