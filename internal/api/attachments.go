package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/minhvu/todopad/internal/model"
)

// ProgressFunc receives fractional upload progress in [0, 1], derived
// from transfer byte counts.
type ProgressFunc func(fraction float64)

// progressReader wraps a reader and reports cumulative progress as a
// fraction of the expected total.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 && pr.progress != nil && pr.total > 0 {
		pr.read += int64(n)
		fraction := float64(pr.read) / float64(pr.total)
		if fraction > 1 {
			fraction = 1
		}
		pr.progress(fraction)
	}
	return n, err
}

// ListAttachments retrieves the attachment metadata for the given todo.
func (c *Client) ListAttachments(ctx context.Context, todoID int) ([]model.Attachment, error) {
	var attachments []model.Attachment
	path := fmt.Sprintf("/attachments/todo/%d", todoID)
	if err := c.get(ctx, path, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// UploadAttachment uploads file content as a multipart form to the given
// todo. If onProgress is non-nil it is called with the transferred
// fraction as the body is consumed.
func (c *Client) UploadAttachment(
	ctx context.Context,
	todoID int,
	fileName string,
	content io.Reader,
	onProgress ProgressFunc,
) (model.Attachment, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return model.Attachment{}, fmt.Errorf("buffering %s: %w", fileName, err)
	}
	if err := writer.Close(); err != nil {
		return model.Attachment{}, fmt.Errorf("finalizing multipart body: %w", err)
	}

	path := fmt.Sprintf("/attachments/todo/%d", todoID)
	body := &progressReader{
		r:        &buf,
		total:    int64(buf.Len()),
		progress: onProgress,
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, body,
	)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("creating upload request: %w", err)
	}
	req.ContentLength = body.total
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("uploading %s: %w", fileName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("reading upload response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return model.Attachment{}, &AuthError{
			Message: fmt.Sprintf("credentials rejected (401) on POST %s", path),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Attachment{}, &APIError{
			StatusCode: resp.StatusCode,
			Method:     http.MethodPost,
			Path:       path,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var attachment model.Attachment
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &attachment); err != nil {
			return model.Attachment{}, fmt.Errorf("unmarshaling upload response: %w", err)
		}
	}
	return attachment, nil
}

// DeleteAttachment removes the attachment with the given identifier.
func (c *Client) DeleteAttachment(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/attachments/%d", id))
}

// DownloadAttachment streams the binary content of an attachment into w.
// Returns the number of bytes written.
func (c *Client) DownloadAttachment(ctx context.Context, id int, w io.Writer) (int64, error) {
	path := fmt.Sprintf("/attachments/%d/download", id)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path, nil,
	)
	if err != nil {
		return 0, fmt.Errorf("creating download request: %w", err)
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("downloading attachment %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return 0, &AuthError{
			Message: fmt.Sprintf("credentials rejected (401) on GET %s", path),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, &APIError{
			StatusCode: resp.StatusCode,
			Method:     http.MethodGet,
			Path:       path,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("writing attachment %d content: %w", id, err)
	}
	return n, nil
}
