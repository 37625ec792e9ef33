package qr

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultImageFileName is the file name offered when the image is saved
const DefaultImageFileName = "my_qr_code.png"

// Image is a fetched QR code
type Image struct {
	Data        []byte
	ContentType string
}

// ImageClient talks to the QR rendering service
type ImageClient struct {
	client *resty.Client
}

func NewImageClient(timeout time.Duration) *ImageClient {
	return &ImageClient{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "image/png,image/*"),
	}
}

// Fetch downloads the image into memory
func (c *ImageClient) Fetch(ctx context.Context, imageURL string) (*Image, error) {
	resp, err := c.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch qr image: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("qr service responded with status %d", resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return &Image{Data: resp.Body(), ContentType: contentType}, nil
}

// Download saves the image at destPath. The body is streamed into a
// temporary file next to destPath which is renamed into place on success
// and removed on every other path.
func (c *ImageClient) Download(ctx context.Context, imageURL, destPath string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".qr-*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	resp, err := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(imageURL)
	if err != nil {
		return fmt.Errorf("unable to fetch qr image: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return fmt.Errorf("qr service responded with status %d", resp.StatusCode())
	}

	if _, err = io.Copy(tmp, body); err != nil {
		return fmt.Errorf("unable to write qr image: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to write qr image: %w", err)
	}
	if err = os.Rename(tmpName, destPath); err != nil {
		return fmt.Errorf("unable to save qr image: %w", err)
	}
	return nil
}
