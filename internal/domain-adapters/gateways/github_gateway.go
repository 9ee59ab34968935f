package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quayside/shipwright/internal/domain/interfaces/gateways"
)

const (
	// Max retries for transient errors
	maxRetries = 3
	// Initial backoff duration
	initialBackoff = 1 * time.Second
	// Max backoff duration
	maxBackoff = 32 * time.Second

	defaultAPIBaseURL = "https://api.github.com"
)

// HTTPGitHubGateway implements gateways.ReleasePublisher against the GitHub
// REST API. Release notes are auto-generated server side.
type HTTPGitHubGateway struct {
	client    *http.Client
	token     string
	userAgent string
	baseURL   string
}

// NewHTTPGitHubGateway creates a new GitHub publisher.
func NewHTTPGitHubGateway(token string) *HTTPGitHubGateway {
	return &HTTPGitHubGateway{
		client: &http.Client{
			Timeout: 5 * time.Minute, // large archive uploads
		},
		token:     token,
		userAgent: "shipwright/1.0",
		baseURL:   defaultAPIBaseURL,
	}
}

// checkRateLimit checks GitHub API rate limit headers and returns an error
// if the quota is exhausted.
func checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	remainingInt, err := strconv.Atoi(remaining)
	if err != nil {
		return nil
	}

	if remainingInt == 0 {
		resetTime := resp.Header.Get("X-RateLimit-Reset")
		if resetTime != "" {
			if resetUnix, err := strconv.ParseInt(resetTime, 10, 64); err == nil {
				resetAt := time.Unix(resetUnix, 0)
				return fmt.Errorf("GitHub API rate limit exceeded (0 remaining), resets at %s", resetAt.Format(time.RFC3339))
			}
		}
		return fmt.Errorf("GitHub API rate limit exceeded (0 remaining)")
	}

	if remainingInt <= 10 {
		fmt.Fprintf(os.Stderr, "⚠️  GitHub API rate limit low: %d remaining\n", remainingInt)
	}

	return nil
}

// isRetryableError checks if an HTTP status code is retryable
func isRetryableError(statusCode int) bool {
	switch statusCode {
	case http.StatusForbidden, // 403 - rate limit
		http.StatusTooManyRequests,     // 429
		http.StatusInternalServerError, // 500
		http.StatusBadGateway,          // 502
		http.StatusServiceUnavailable,  // 503
		http.StatusGatewayTimeout:      // 504
		return true
	default:
		return false
	}
}

// calculateBackoff returns the backoff duration for a retry attempt
func calculateBackoff(attempt int) time.Duration {
	backoff := float64(initialBackoff) * math.Pow(2, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}
	return time.Duration(backoff)
}

// doWithRetry executes an HTTP request with exponential backoff retry
func (g *HTTPGitHubGateway) doWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(calculateBackoff(attempt - 1))

			// The previous attempt consumed the body; rewind it or the
			// retry goes out empty.
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return nil, fmt.Errorf("failed to rewind request body: %w", bodyErr)
				}
				req.Body = body
			}
		}

		resp, err = g.client.Do(req)
		if err != nil {
			// Network errors are retryable
			if attempt < maxRetries {
				continue
			}
			return nil, err
		}

		if rateLimitErr := checkRateLimit(resp); rateLimitErr != nil {
			//nolint:errcheck,gosec // G104: best effort close on rate limit error
			resp.Body.Close()
			return nil, rateLimitErr
		}

		if !isRetryableError(resp.StatusCode) {
			return resp, nil
		}

		//nolint:errcheck,gosec // G104: best effort close before retry
		resp.Body.Close()

		if attempt < maxRetries {
			continue
		}

		return resp, nil
	}

	return resp, err
}

// githubRelease is the GitHub API release representation
type githubRelease struct {
	ID            int64  `json:"id,omitempty"`
	TagName       string `json:"tag_name"`
	Name          string `json:"name,omitempty"`
	Draft         bool   `json:"draft"`
	GenerateNotes bool   `json:"generate_release_notes,omitempty"`
	HTMLURL       string `json:"html_url,omitempty"`
	UploadURL     string `json:"upload_url,omitempty"`
}

// githubAsset is the GitHub API release asset representation
type githubAsset struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	State              string `json:"state"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

func (g *HTTPGitHubGateway) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", g.userAgent)
}

// CreateRelease creates a new tagged release with auto-generated notes.
func (g *HTTPGitHubGateway) CreateRelease(ctx context.Context, owner, repo string, req *gateways.ReleaseRequest) (*gateways.PublishedRelease, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases", g.baseURL, owner, repo)

	apiRelease := githubRelease{
		TagName:       req.TagName,
		Name:          req.Title,
		Draft:         req.Draft,
		GenerateNotes: req.GenerateNotes,
	}

	body, err := json.Marshal(apiRelease)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal release: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.doWithRetry(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create release: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("failed to create release: status %d (failed to read response)", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to create release: status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return toPublished(&result), nil
}

// GetRelease retrieves a release by tag name.
func (g *HTTPGitHubGateway) GetRelease(ctx context.Context, owner, repo, tag string) (*gateways.PublishedRelease, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", g.baseURL, owner, repo, tag)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(httpReq)

	resp, err := g.doWithRetry(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("release not found: %s", tag)
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("HTTP %d: failed to read error response", resp.StatusCode)
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return toPublished(&result), nil
}

// UploadAsset attaches a file to a release.
func (g *HTTPGitHubGateway) UploadAsset(ctx context.Context, uploadURL, filename string, content io.Reader) (*gateways.ReleaseAsset, error) {
	// GitHub returns templated URLs like .../assets{?name,label}
	baseURL := strings.Split(uploadURL, "{")[0]

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid upload URL: %w", err)
	}

	uploadURLWithName := fmt.Sprintf("%s?name=%s", baseURL, url.QueryEscape(filename))

	// Buffer the content so ContentLength can be set
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", uploadURLWithName, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/octet-stream")
	httpReq.ContentLength = int64(buf.Len())

	resp, err := g.doWithRetry(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("failed to upload asset: status %d (failed to read response)", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to upload asset: status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result githubAsset
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &gateways.ReleaseAsset{
		ID:                 result.ID,
		Name:               result.Name,
		State:              result.State,
		Size:               result.Size,
		BrowserDownloadURL: result.BrowserDownloadURL,
	}, nil
}

// ListReleaseAssets lists all assets attached to a release.
func (g *HTTPGitHubGateway) ListReleaseAssets(ctx context.Context, owner, repo string, releaseID int64) ([]*gateways.ReleaseAsset, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases/%d/assets", g.baseURL, owner, repo, releaseID)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(httpReq)

	resp, err := g.doWithRetry(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("failed to list assets: status %d (failed to read response)", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to list assets: status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var results []githubAsset
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	assets := make([]*gateways.ReleaseAsset, len(results))
	for i, a := range results {
		assets[i] = &gateways.ReleaseAsset{
			ID:                 a.ID,
			Name:               a.Name,
			State:              a.State,
			Size:               a.Size,
			BrowserDownloadURL: a.BrowserDownloadURL,
		}
	}

	return assets, nil
}

func toPublished(r *githubRelease) *gateways.PublishedRelease {
	return &gateways.PublishedRelease{
		ID:        r.ID,
		TagName:   r.TagName,
		Title:     r.Name,
		Draft:     r.Draft,
		HTMLURL:   r.HTMLURL,
		UploadURL: r.UploadURL,
	}
}
