// Package rest implements rowstore.Backend over the PostgREST protocol
// served by hosted Postgres platforms under /rest/v1.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

type Client struct {
	baseURL string
	key     string
	client  *http.Client
}

// New returns a client for the project at baseURL authenticated with key.
func New(baseURL, key string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/rest/v1/",
		key:     key,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) List(ctx context.Context, table string, q rowstore.Query) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("select", "*")

	if q.OrderBy != "" {
		dir := "desc"
		if q.Ascending {
			dir = "asc"
		}

		params.Set("order", q.OrderBy+"."+dir)
	}

	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	for _, f := range q.Filters {
		params.Add(f.Column, "eq."+fmt.Sprint(f.Value))
	}

	var rows []json.RawMessage
	if err := c.do(ctx, http.MethodGet, table, params, nil, &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

func (c *Client) Insert(ctx context.Context, table string, row rowstore.Row) (json.RawMessage, error) {
	var rows []json.RawMessage
	if err := c.do(ctx, http.MethodPost, table, nil, row, &rows); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", table)
	}

	return rows[0], nil
}

func (c *Client) Update(ctx context.Context, table, id string, row rowstore.Row) (json.RawMessage, error) {
	var rows []json.RawMessage
	if err := c.do(ctx, http.MethodPatch, table, byID(id), row, &rows); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, rowstore.ErrNotFound
	}

	return rows[0], nil
}

func (c *Client) Delete(ctx context.Context, table, id string) error {
	return c.do(ctx, http.MethodDelete, table, byID(id), nil, nil)
}

func byID(id string) url.Values {
	return url.Values{"id": {"eq." + id}}
}

// do sends one request. When out is non-nil the response body is decoded
// into it; writes ask the backend to echo the affected rows.
func (c *Client) do(ctx context.Context, method, table string, params url.Values, body any, out any) error {
	endpoint := c.baseURL + url.PathEscape(table)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding row: %w", err)
		}

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &rowstore.ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// decodeError turns a non-2xx response into a backend rejection. Gateway
// failures that carry no backend error code mean the backend is unreachable.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		body = errorBody{Message: strings.TrimSpace(string(raw))}
	}

	if body.Code == "" {
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return &rowstore.ConnectivityError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))}
		}
	}

	if body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}

	return &rowstore.Error{
		Status:  resp.StatusCode,
		Code:    body.Code,
		Message: body.Message,
		Details: body.Details,
		Hint:    body.Hint,
	}
}
