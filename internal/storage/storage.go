package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"

	"github.com/quiznest/quiznest-lambda/internal/config"
)

const bucketID = "quiz-files"

// Store is the file storage collaborator. The pipeline only depends on
// getting back a dereferenceable public URL for an uploaded document.
type Store interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader, ownerID string) (string, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type supabaseStore struct {
	client *storage_go.Client
	http   *http.Client
}

func NewSupabaseStore() Store {
	base := config.SupabaseURL() + "/storage/v1"
	client := storage_go.NewClient(base, config.SupabaseServiceKey(), nil)

	return &supabaseStore{
		client: client,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *supabaseStore) Upload(ctx context.Context, filename, contentType string, r io.Reader, ownerID string) (string, error) {
	objectPath := path.Join(ownerID, uuid.NewString()+"_"+filename)

	_, err := s.client.UploadFile(bucketID, objectPath, r, storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	resp := s.client.GetPublicUrl(bucketID, objectPath)
	return resp.SignedURL, nil
}

func (s *supabaseStore) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
