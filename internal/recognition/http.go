package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// doGetJSON performs a GET request and unmarshals the JSON response into the result type.
func doGetJSON[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	return doRequest[T](ctx, c, http.MethodGet, endpoint, nil, "")
}

// doPostJSON performs a POST request with a JSON body and unmarshals the JSON response.
func doPostJSON[T any](ctx context.Context, c *Client, endpoint string, requestBody any) (*T, error) {
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request body: %w", err)
	}
	return doRequest[T](ctx, c, http.MethodPost, endpoint, bytes.NewReader(jsonBody), "application/json")
}

// doRequest performs the round trip. A body carrying a non-empty error field becomes a
// *ServiceError whatever the status code; every other failure becomes a *NetworkError.
func doRequest[T any](ctx context.Context, c *Client, method, endpoint string, body io.Reader, contentType string) (*T, error) {
	op := method + " /" + endpoint

	req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL constructed from validated parsedURL via resolveURL
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("could not send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("could not read response body: %w", err)}
	}

	c.captureResponse(endpoint, respBody)

	var envelope errorEnvelope
	if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
		return nil, &ServiceError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))}
	}

	var result T
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("could not unmarshal response: %w", err)}
	}

	return &result, nil
}
