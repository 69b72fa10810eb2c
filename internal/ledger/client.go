// Package ledger is the HTTP client for the ledger REST backend.
//
// Every failure, whether transport, non-2xx status or decoding, is reported
// as a *RequestError that matches ErrRequestFailed. There is no retry.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

const transactionsPath = "/api/transactions"

// ErrRequestFailed is the single failure kind surfaced to the view.
var ErrRequestFailed = errors.New("request failed")

// RequestError describes a failed ledger call.
type RequestError struct {
	Op     string // list, create, delete, summary
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ledger %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// Client talks to GET/POST /api/transactions and DELETE /api/transactions/{id}.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l.WithComponent(log.ComponentLedger) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		timeout: 7 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = newPooledHTTPClient()
	}
	if c.logger == nil {
		c.logger = log.Discard()
	}
	return c
}

// newPooledHTTPClient keeps a few idle connections to the single ledger host.
func newPooledHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
	}
}

// List fetches all transactions in the order the backend returns them.
func (c *Client) List(ctx context.Context) ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := c.do(ctx, log.OpList, http.MethodGet, transactionsPath, nil, &txs); err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "Transactions fetched", log.FieldCount, len(txs))
	return txs, nil
}

// Create submits a new transaction and returns the stored record when the
// backend echoes it back.
func (c *Client) Create(ctx context.Context, n core.NewTransaction) (core.Transaction, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return core.Transaction{}, &RequestError{Op: log.OpCreate, Err: fmt.Errorf("encode payload: %w", err)}
	}
	var created core.Transaction
	if err := c.do(ctx, log.OpCreate, http.MethodPost, transactionsPath, body, &created); err != nil {
		return core.Transaction{}, err
	}
	c.logger.InfoContext(ctx, "Transaction created",
		log.NewFields().WithTransaction(created.ID, n.Type.String(), n.Description, n.Amount.String(), n.Category).ToSlice()...)
	return created, nil
}

// Delete removes a transaction by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	path := transactionsPath + "/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, log.OpDelete, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "Transaction deleted", log.FieldTxID, id)
	return nil
}

// Summary fetches the backend-computed totals.
func (c *Client) Summary(ctx context.Context) (core.Totals, error) {
	var t core.Totals
	if err := c.do(ctx, log.OpSummary, http.MethodGet, transactionsPath+"/summary", nil, &t); err != nil {
		return core.Totals{}, err
	}
	return t, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Ledger request failed", log.FieldOperation, op, log.FieldError, err, "error_type", log.ErrorTypeNetwork)
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Ledger request completed",
		log.FieldOperation, op,
		log.FieldMethod, method,
		log.FieldPath, path,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RequestError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status: %s", bytes.TrimSpace(msg))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	// Create may legitimately answer with an empty body.
	if len(bytes.TrimSpace(raw)) == 0 && op == log.OpCreate {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
