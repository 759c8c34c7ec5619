// Package remote holds the plumbing shared by the catalog and order clients.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 1 << 20

// NewHTTPClient returns a client with the timeout, or the fallback when zero.
func NewHTTPClient(timeout, fallback time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = fallback
	}

	return &http.Client{Timeout: timeout}
}

// Endpoint joins a base URL and a path. A %s verb in the path is replaced by
// the escaped id; otherwise the id, when given, is appended as a segment.
func Endpoint(baseURL, path, id string) (string, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", errors.Errorf("invalid base url %q", baseURL)
	}

	if id != "" {
		escaped := url.PathEscape(id)
		if strings.Contains(path, "%s") {
			path = fmt.Sprintf(path, escaped)
		} else {
			path = strings.TrimRight(path, "/") + "/" + escaped
		}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return base.String() + path, nil
}

// NewJSONRequest builds a request carrying the caller's request id.
func NewJSONRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}

	return req, nil
}

// ReadBody reads at most maxBodySize bytes and closes the body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	return body, nil
}

// Message extracts a human-readable reason from an error body, falling back to
// the status text.
func Message(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if reason, ok := payload.Error.(string); ok && reason != "" {
			return reason
		}
	}

	text := strings.TrimSpace(string(body))
	if text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}

	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
