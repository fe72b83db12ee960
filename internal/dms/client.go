package dms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"docdesk/internal/model"
	"docdesk/internal/resilience"
)

// Client talks to the DMS master-list API.
//
// All calls are routed through a resilience executor so transient network
// failures retry with backoff and a dead endpoint trips a breaker instead
// of stalling the UI.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	exec       *resilience.Executor
}

func New(baseURL, token string, exec *resilience.Executor) *Client {
	if exec == nil {
		exec = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		exec:       exec,
	}
}

// List fetches the document master list for actingUser.
func (c *Client) List(ctx context.Context, q model.ListQuery, actingUser string) ([]model.DocumentRecord, error) {
	var docs []model.DocumentRecord
	err := c.exec.Run(ctx, "dms.list", func(ctx context.Context) error {
		docs = nil
		return c.postJSON(ctx, "/api/dms/master/list", "list", q, &docs, actingUser)
	}, classifyError)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes one record. The returned string is the server's own
// confirmation message when it sent one ("" otherwise).
func (c *Client) Delete(ctx context.Context, req model.DeleteRequest, actingUser string) (string, error) {
	return c.postForMessage(ctx, "/api/dms/master/delete", "delete", req, actingUser)
}

// Update saves edited record metadata.
func (c *Client) Update(ctx context.Context, doc model.DocumentRecord, actingUser string) (string, error) {
	return c.postForMessage(ctx, "/api/dms/master/update", "update", doc, actingUser)
}

// Upload attaches a local file to the record identified by refSeqNo.
func (c *Client) Upload(ctx context.Context, refSeqNo int, path string, actingUser string) (string, error) {
	var msg string
	err := c.exec.Run(ctx, "dms.upload", func(ctx context.Context) error {
		m, err := c.uploadOnce(ctx, refSeqNo, path, actingUser)
		msg = m
		return err
	}, classifyError)
	return msg, err
}

func (c *Client) postForMessage(ctx context.Context, path, op string, in any, actingUser string) (string, error) {
	var raw json.RawMessage
	err := c.exec.Run(ctx, "dms."+op, func(ctx context.Context) error {
		raw = nil
		return c.postJSON(ctx, path, op, in, &raw, actingUser)
	}, classifyError)
	if err != nil {
		return "", err
	}
	return messageFromBody(raw), nil
}

func (c *Client) postJSON(ctx context.Context, path, op string, in, out any, actingUser string) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("dms %s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setIdentity(req, actingUser)

	return c.do(req, op, out)
}

func (c *Client) uploadOnce(ctx context.Context, refSeqNo int, path string, actingUser string) (string, error) {
	f, err := openUploadFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("REF_SEQ_NO", strconv.Itoa(refSeqNo)); err != nil {
		return "", err
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("dms upload: read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/dms/master/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setIdentity(req, actingUser)

	var raw json.RawMessage
	if err := c.do(req, "upload", &raw); err != nil {
		return "", err
	}
	return messageFromBody(raw), nil
}

func (c *Client) setIdentity(req *http.Request, actingUser string) {
	if strings.TrimSpace(actingUser) != "" {
		req.Header.Set("X-User-Login", actingUser)
	}
	if strings.TrimSpace(c.token) != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("dms %s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPStatusError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("dms %s: decode response: %w", op, err)
	}
	return nil
}

// messageFromBody extracts a textual server message. Servers respond to
// mutations with either a bare JSON string or an object; only the string
// form is surfaced to the user.
func messageFromBody(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return ""
}
