// Package media talks to the external blob/upload service. The service is an
// opaque collaborator: it takes a file and answers with a public URL and, for
// video content, a duration.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type UploadResult struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

// Uploader sends a local file to the blob service. Implementations do not
// remove the local file; the caller deletes it after the attempt regardless
// of outcome.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*UploadResult, error)
}

// HTTPUploader posts the file as multipart form data to a configured endpoint.
type HTTPUploader struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPUploader(endpoint, apiKey string) *HTTPUploader {
	return &HTTPUploader{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (u *HTTPUploader) Upload(ctx context.Context, localPath string) (*UploadResult, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filepath.Base(localPath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, pr)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("upload service returned %d: %s", resp.StatusCode, string(body))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if result.URL == "" {
		return nil, fmt.Errorf("upload service returned no url")
	}
	return &result, nil
}
