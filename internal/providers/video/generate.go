package video

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"golang.org/x/oauth2"

	"adstudio/internal/domain"
)

// GenerateResponse is the body of a successful submission.
type GenerateResponse struct {
	Message  string `json:"message"`
	VideoID  flexID `json:"video_id"`
	Status   string `json:"status"`
	VideoURL string `json:"video_url"`
}

// ID returns the created video identifier.
func (r GenerateResponse) ID() string {
	return strings.TrimSpace(string(r.VideoID))
}

// Generate posts one job to /v1/videos/generate as multipart form data.
func (c *Client) Generate(ctx context.Context, job domain.GenerationJob, tok *oauth2.Token, requestID string) (*GenerateResponse, error) {
	body, contentType, err := encodeJob(job)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/v1/videos/generate", body, tok)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	var out GenerateResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func encodeJob(job domain.GenerationJob) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := [][2]string{
		{"prompt", job.Prompt},
		{"duration", job.Duration.String()},
		{"title", job.Title},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("video: write field %s: %w", f[0], err)
		}
	}

	if img := job.Image; img != nil && len(img.Data) > 0 {
		name := img.Name
		if name == "" {
			name = "product"
		}
		mimeType := img.MIMEType
		if mimeType == "" {
			mimeType = http.DetectContentType(img.Data)
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf("form-data; name=%q; filename=%q", "image", name))
		header.Set("Content-Type", mimeType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("video: create image part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", fmt.Errorf("video: write image: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("video: close multipart: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
