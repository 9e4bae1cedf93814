// Package storage relays profile photos to an external object-storage
// service. The core only depends on the upload/delete contract: an upload
// yields a permanent URL plus an opaque reference used for later deletion.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// ErrUnexpectedStatus indicates the storage service answered outside 2xx.
var ErrUnexpectedStatus = errors.New("object store returned unexpected status")

// Object is the result of a successful upload.
type Object struct {
	URL string `json:"url"`
	Ref string `json:"ref"`
}

// Client talks to the object-storage HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a storage Client for the given base URL.
// The API key is optional; when set it is sent as a bearer credential.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: newHTTPClient(),
	}
}

// Upload sends the file to the storage service and returns the hosted
// object. The reader is consumed fully; the caller keeps ownership.
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader) (Object, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, sanitizeFilename(filename)))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return Object{}, fmt.Errorf("create multipart: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return Object{}, fmt.Errorf("copy upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Object{}, fmt.Errorf("finalize multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/objects", &body)
	if err != nil {
		return Object{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Object{}, fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Object{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var obj Object
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return Object{}, fmt.Errorf("decode upload response: %w", err)
	}
	if obj.URL == "" || obj.Ref == "" {
		return Object{}, fmt.Errorf("%w: incomplete body", ErrUnexpectedStatus)
	}

	return obj, nil
}

// Delete removes a previously uploaded object by its opaque reference.
// A 404 from the service is treated as success: the object is gone.
func (c *Client) Delete(ctx context.Context, ref string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/objects/"+url.PathEscape(ref), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// sanitizeFilename strips characters that would break the multipart header.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `"`, "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\n", "")
	if name == "" {
		name = "upload"
	}
	return name
}
