package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

var ErrUploadFailed = errors.New("image upload failed")

// Uploader stores raw image bytes with an external CDN and returns the hosted
// URL. The marketplace only ever keeps the URL string.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// CDNUploader forwards uploads to a configured HTTP endpoint
type CDNUploader struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewCDNUploader creates an Uploader posting to the given endpoint
func NewCDNUploader(endpoint, apiKey string) *CDNUploader {
	return &CDNUploader{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload sends the bytes as a multipart form and returns the secure URL the
// CDN responds with
func (u *CDNUploader) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: malformed response", ErrUploadFailed)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("%w: empty url in response", ErrUploadFailed)
	}

	return result.SecureURL, nil
}
