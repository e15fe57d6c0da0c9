package gcat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchResource downloads a dataset file by its path relative to the
// base URL (e.g. "tsv/tables/lv.tsv") and returns the complete content.
// The response body is accumulated in fixed-size chunks, which bounds
// per-read memory and leaves room for size limits or progress reporting
// later. Fails with ErrSourceUnavailable on transport errors or non-2xx
// statuses. There is no partial-content resumption.
func (c *Client) FetchResource(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", ErrSourceUnavailable, path, resp.StatusCode)
	}

	var buf bytes.Buffer
	chunk := make([]byte, c.chunkSize)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, path, err)
		}
	}
	return buf.Bytes(), nil
}
