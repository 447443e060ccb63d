package agents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

type UploadedPhoto struct {
	PhotoURL string
	Filepath string
}

// UploadPhoto sends the photo read from r as the multipart field "photo".
func (c *Client) UploadPhoto(ctx context.Context, filename string, r io.Reader) (UploadedPhoto, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("photo", filepath.Base(filename))
	if err != nil {
		return UploadedPhoto{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadedPhoto{}, fmt.Errorf("failed to read photo: %w", err)
	}
	if err := writer.Close(); err != nil {
		return UploadedPhoto{}, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(EndpointPhotoUpload), body)
	if err != nil {
		return UploadedPhoto{}, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var response UploadResponse
	if err := c.do(ctx, EndpointPhotoUpload, req, &response); err != nil {
		return UploadedPhoto{}, err
	}

	return UploadedPhoto{PhotoURL: response.PhotoURL, Filepath: response.Filepath}, nil
}
