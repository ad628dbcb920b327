// Package github is a minimal client for the GitHub REST API endpoints used by ghauthz.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/simplaapliko/ghauthz/internal/buildinfo"
	"github.com/simplaapliko/ghauthz/internal/config"
	"github.com/simplaapliko/ghauthz/internal/logging"
	"github.com/simplaapliko/ghauthz/internal/util"
	log "github.com/sirupsen/logrus"
)

const (
	authorizationsPath = "/authorizations"
	acceptHeader       = "application/vnd.github+json"
	apiVersion         = "2022-11-28"
	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 8 << 20
)

// Client issues authenticated requests against the GitHub REST API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	credentials string
}

// NewClient creates a client using the configured API URL, timeout and proxy.
// credentials is sent verbatim as the Authorization header.
func NewClient(cfg *config.Config, credentials string) *Client {
	baseURL := config.DefaultAPIURL
	if cfg != nil && strings.TrimSpace(cfg.APIURL) != "" {
		baseURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	}
	return &Client{
		httpClient:  util.NewHTTPClient(cfg),
		baseURL:     baseURL,
		credentials: credentials,
	}
}

// NewClientWithHTTP creates a client around an existing http.Client.
func NewClientWithHTTP(httpClient *http.Client, baseURL, credentials string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(config.DefaultRequestTimeoutSeconds) * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: credentials,
	}
}

// ListAuthorizations fetches the authenticated user's OAuth authorizations.
func (c *Client) ListAuthorizations(ctx context.Context) (AuthorizationList, error) {
	var list AuthorizationList
	if err := c.getJSON(ctx, authorizationsPath, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = AuthorizationList{}
	}
	return list, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if logging.GetRequestID(ctx) == "" {
		ctx = logging.WithRequestID(ctx, logging.GenerateRequestID())
	}
	entry := logging.Entry(ctx)
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &networkError{op: "failed to create request", err: err}
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", "ghauthz/"+buildinfo.Version)
	if c.credentials != "" {
		req.Header.Set("Authorization", c.credentials)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			// Cancellation is reported as-is, never as a network failure.
			return ctx.Err()
		}
		entry.WithField("url", endpoint).Debugf("request failed: %v", err)
		return &networkError{op: "request failed", err: unwrapURLError(err)}
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("github: close body error: %v", errClose)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		return &networkError{op: "failed to read response", err: err}
	}

	entry.WithFields(log.Fields{
		"method":  http.MethodGet,
		"url":     endpoint,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("github api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return &networkError{op: "failed to parse response", err: err}
	}
	return nil
}

// unwrapURLError strips the `Get "url":` prefix net/http adds so notices stay short.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
