// Package client sends update batches to the time series and assets APIs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"

	"github.com/brunoga/update"
	"github.com/brunoga/update/config"
	"github.com/brunoga/update/resources"
)

const (
	resourceTimeSeries = "timeseries"
	resourceAssets     = "assets"

	opUpdate = "update"
	opDelete = "delete"
)

// Client submits updates and deletes. It is safe for concurrent use.
type Client struct {
	cfg        config.APIConfig
	httpClient *http.Client
	logger     logrus.FieldLogger
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger replaces the logger built from the logging configuration.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables request metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New returns a client for the configured project.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg.API}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = cleanhttp.DefaultPooledClient()
		c.httpClient.Timeout = cfg.API.Timeout
	}
	if c.logger == nil {
		logger, err := config.NewLogger(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.logger = logger
	}
	return c, nil
}

// UpdateTimeSeries applies the updates and returns the updated time series
// as sent back by the API, in request order.
func (c *Client) UpdateTimeSeries(ctx context.Context, updates ...*resources.TimeSeriesUpdate) ([]resources.TimeSeries, error) {
	patches, err := patchesOf(updates)
	if err != nil {
		return nil, err
	}
	return runUpdate[resources.TimeSeries](ctx, c, resourceTimeSeries, update.NewBatch(patches...))
}

// UpdateAssets applies the updates and returns the updated assets as sent
// back by the API, in request order.
func (c *Client) UpdateAssets(ctx context.Context, updates ...*resources.AssetUpdate) ([]resources.Asset, error) {
	patches, err := patchesOf(updates)
	if err != nil {
		return nil, err
	}
	return runUpdate[resources.Asset](ctx, c, resourceAssets, update.NewBatch(patches...))
}

// DeleteTimeSeries deletes the time series selected by keys.
func (c *Client) DeleteTimeSeries(ctx context.Context, keys ...update.ResourceKey) error {
	return c.delete(ctx, resourceTimeSeries, keys)
}

// DeleteAssets deletes the assets selected by keys.
func (c *Client) DeleteAssets(ctx context.Context, keys ...update.ResourceKey) error {
	return c.delete(ctx, resourceAssets, keys)
}

// patchesOf rejects nil updates before anything is serialized.
func patchesOf[U resources.Updater](updates []U) ([]*update.Patch, error) {
	patches := make([]*update.Patch, len(updates))
	for i, u := range updates {
		if isNil(u) {
			return nil, &update.ValidationError{Reason: fmt.Sprintf("update %d is nil", i)}
		}
		patches[i] = u.Patch()
	}
	return patches, nil
}

func isNil(u resources.Updater) bool {
	switch u := u.(type) {
	case *resources.TimeSeriesUpdate:
		return u == nil
	case *resources.AssetUpdate:
		return u == nil
	}
	return u == nil
}

// runUpdate serializes every chunk before sending anything, so local builder
// errors never leave a batch half applied.
func runUpdate[T any](ctx context.Context, c *Client, resource string, batch *update.Batch) ([]T, error) {
	chunks := batch.Split(c.cfg.MaxBatchSize)
	bodies := make([][]byte, len(chunks))
	for i, chunk := range chunks {
		body, err := chunk.Serialize()
		if err != nil {
			return nil, err
		}
		bodies[i] = body
	}

	out := make([]T, 0, batch.Len())
	for i, body := range bodies {
		resp, err := c.post(ctx, resource, opUpdate, chunks[i].Len(), body)
		if err != nil {
			return nil, err
		}
		var items struct {
			Items []T `json:"items"`
		}
		if err := json.Unmarshal(resp, &items); err != nil {
			return nil, fmt.Errorf("decoding %s %s response: %w", resource, opUpdate, err)
		}
		out = append(out, items.Items...)
	}
	return out, nil
}

func (c *Client) delete(ctx context.Context, resource string, keys []update.ResourceKey) error {
	if len(keys) == 0 {
		return &update.ValidationError{Reason: "no resource keys to delete"}
	}
	for _, k := range keys {
		if err := k.Validate(); err != nil {
			return err
		}
	}

	size := c.cfg.MaxBatchSize
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		body, err := json.Marshal(struct {
			Items []update.ResourceKey `json:"items"`
		}{keys[start:end]})
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", resource, opDelete, err)
		}
		if _, err := c.post(ctx, resource, opDelete, end-start, body); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) endpoint(resource, op string) string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/api/v1/projects/%s/%s/%s", base, url.PathEscape(c.cfg.Project), resource, op)
}

func (c *Client) post(ctx context.Context, resource, op string, items int, body []byte) ([]byte, error) {
	logger := c.logger.WithFields(logrus.Fields{
		"resource": resource,
		"op":       op,
		"items":    items,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(resource, op), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating %s %s request: %w", resource, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.observe(resource, op, "error", duration.Seconds())
		logger.WithError(err).Warn("request failed")
		return nil, fmt.Errorf("sending %s %s request: %w", resource, op, err)
	}
	defer resp.Body.Close()

	code := strconv.Itoa(resp.StatusCode)
	c.metrics.observe(resource, op, code, duration.Seconds())
	logger = logger.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": duration,
	})

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s %s response: %w", resource, op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseAPIError(resp.StatusCode, data)
		logger.WithError(apiErr).Warn("request rejected")
		return nil, apiErr
	}

	logger.Debug("request completed")
	return data, nil
}
