// ABOUTME: Multipart upload with a progress channel and a single terminal result
// ABOUTME: Rejects non-POST/PUT methods and offline networks before any I/O

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrInvalidMethod is returned when an upload is not POST or PUT
	ErrInvalidMethod = errors.New("invalid HTTP method")

	// ErrOffline is returned when the network probe fails before an upload
	ErrOffline = errors.New("no internet connection")
)

const (
	onlineProbeTimeout = 3 * time.Second
	progressInterval   = 50 * time.Millisecond
)

// File is one file part of an upload
type File struct {
	Field   string
	Name    string
	Content io.Reader
}

// UploadRequest describes a multipart upload
type UploadRequest struct {
	Method string
	Target string
	Fields Payload
	Files  []File
	Header http.Header
}

// UploadTask is an in-flight upload. Progress reports 0-100 and is closed
// when the task resolves; Wait returns the terminal result.
type UploadTask struct {
	progress chan float64
	done     chan struct{}
	cancel   context.CancelFunc

	mu       sync.Mutex
	closed   bool
	once     sync.Once
	result   Result[json.RawMessage]
	throttle rate.Sometimes
}

// Progress returns the channel of upload percentages. Only the latest
// value is buffered so a slow reader never stalls the upload.
func (t *UploadTask) Progress() <-chan float64 {
	return t.progress
}

// Done is closed once the task has resolved
func (t *UploadTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task resolves and returns its result
func (t *UploadTask) Wait() Result[json.RawMessage] {
	<-t.done
	return t.result
}

// Cancel aborts the upload; the task resolves with MsgCanceled
func (t *UploadTask) Cancel() {
	t.cancel()
}

func (t *UploadTask) emit(pct float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	select {
	case <-t.progress:
	default:
	}
	t.progress <- pct
}

func (t *UploadTask) resolve(r Result[json.RawMessage]) {
	t.once.Do(func() {
		t.result = r
		t.mu.Lock()
		t.closed = true
		close(t.progress)
		t.mu.Unlock()
		close(t.done)
		t.cancel()
	})
}

// Upload validates the request, checks connectivity and starts the upload
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadTask, error) {
	method := strings.ToUpper(req.Method)
	if method != http.MethodPost && method != http.MethodPut {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMethod, req.Method)
	}
	if req.Target == "" {
		return nil, errEndpointRequired
	}
	if !c.online(ctx) {
		return nil, ErrOffline
	}

	body, contentType, err := encodeMultipart(req.Fields, req.Files)
	if err != nil {
		return nil, fmt.Errorf("failed to encode upload: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	task := &UploadTask{
		progress: make(chan float64, 1),
		done:     make(chan struct{}),
		cancel:   cancel,
		throttle: rate.Sometimes{Interval: progressInterval},
	}

	go task.run(ctx, c, method, c.resolve(req.Target, false), body, contentType, req.Header)
	return task, nil
}

func (t *UploadTask) run(ctx context.Context, c *Client, method, target string, body []byte, contentType string, extra http.Header) {
	pr := &progressReader{
		r:     bytes.NewReader(body),
		total: int64(len(body)),
		report: func(pct float64) {
			t.throttle.Do(func() { t.emit(pct) })
		},
	}

	req, err := http.NewRequestWithContext(ctx, method, target, pr)
	if err != nil {
		t.resolve(failure[json.RawMessage](fmt.Sprintf("failed to create request: %v", err)))
		return
	}
	req.ContentLength = pr.total
	c.applyHeaders(req, extra)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Upload failed", "url", req.URL.Redacted(), "error", err)
		t.resolve(failure[json.RawMessage](c.handleRequestError(ctx, err)))
		return
	}
	defer resp.Body.Close()

	if pr.complete() {
		t.emit(100)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		t.resolve(failure[json.RawMessage](c.handleRequestError(ctx, err)))
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fallback := fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		t.resolve(failure[json.RawMessage](handleErrorResponse(data, fallback)))
		return
	}

	var result Result[json.RawMessage]
	if err := json.Unmarshal(data, &result); err != nil {
		t.resolve(failure[json.RawMessage](MsgInvalidResponse))
		return
	}
	t.resolve(withCause(result))
}

// progressReader reports the share of the body consumed by the transport
type progressReader struct {
	r      io.Reader
	total  int64
	mu     sync.Mutex
	read   int64
	report func(pct float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.mu.Lock()
		p.read += int64(n)
		pct := float64(p.read) * 100 / float64(p.total)
		p.mu.Unlock()
		p.report(pct)
	}
	return n, err
}

func (p *progressReader) complete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.read >= p.total
}

// encodeMultipart writes fields then files; slice values repeat their key
func encodeMultipart(fields Payload, files []File) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields.Compact() {
		for _, v := range fieldValues(f.Value) {
			if err := w.WriteField(f.Key, v); err != nil {
				return nil, "", err
			}
		}
	}

	for _, file := range files {
		if file.Content == nil {
			return nil, "", fmt.Errorf("file %q has no content", file.Name)
		}
		part, err := w.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", file.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func fieldValues(v any) []string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		if _, isBytes := v.([]byte); !isBytes {
			out := make([]string, rv.Len())
			for i := range out {
				out[i] = stringify(rv.Index(i).Interface())
			}
			return out
		}
	}
	return []string{stringify(v)}
}

// dialProbe returns a probe that succeeds when the API host accepts TCP
func dialProbe(baseURL string) func(ctx context.Context) bool {
	return func(ctx context.Context) bool {
		u, err := url.Parse(baseURL)
		if err != nil || u.Host == "" {
			return false
		}
		hostport := u.Host
		if u.Port() == "" {
			port := "80"
			if u.Scheme == "https" {
				port = "443"
			}
			hostport = net.JoinHostPort(u.Hostname(), port)
		}

		d := net.Dialer{Timeout: onlineProbeTimeout}
		conn, err := d.DialContext(ctx, "tcp", hostport)
		if err != nil {
			slog.Debug("Online probe failed", "host", hostport, "error", err)
			return false
		}
		conn.Close()
		return true
	}
}
