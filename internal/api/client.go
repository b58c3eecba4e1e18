package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/camuig/trade-journal/internal/config"
	"github.com/camuig/trade-journal/internal/logger"
)

// ErrTimeout marks a request that ran past its read or write deadline.
var ErrTimeout = errors.New("request timeout")

// Client talks JSON to the journal backend.
type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	readTimeout  time.Duration
	writeTimeout time.Duration
	logger       *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.Backend.URL, "/"),
		token:        cfg.Backend.Token,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		readTimeout:  cfg.ReadTimeout(),
		writeTimeout: cfg.WriteTimeout(),
		logger:       log.Component("api"),
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any

	// notFoundEmpty treats 404 as an empty result instead of an error.
	notFoundEmpty bool
}

func (c *Client) do(ctx context.Context, r request) error {
	timeout := c.writeTimeout
	if r.method == http.MethodGet {
		timeout = c.readTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("backend request",
		"method", r.method, "path", r.path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode == http.StatusNotFound && r.notFoundEmpty {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}

	if r.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, r.out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
