// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/docpages/internal/httputil"
	"github.com/pdiddy/docpages/pkg/types"
)

// BrokenLink is one external URL that did not resolve.
type BrokenLink struct {
	URL   string
	Pages []string

	// Status is the HTTP status, 0 when the request itself failed.
	Status int

	// Reason is a human-readable failure description.
	Reason string
}

// Report summarizes a link-check run.
type Report struct {
	Checked int
	Broken  []BrokenLink
}

// HasFailures reports whether any link was broken.
func (r Report) HasFailures() bool {
	return len(r.Broken) > 0
}

// Checker verifies external links sequentially, one request at a time with
// a politeness delay between hosts we do not control.
type Checker struct {
	cfg    types.LinkCheckConfig
	client *http.Client
}

// NewChecker builds a Checker from config; a nil client gets a default one
// with the configured timeout.
func NewChecker(cfg types.LinkCheckConfig, client *http.Client) *Checker {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Checker{cfg: cfg, client: client}
}

// Run extracts the external links under htmlDir and checks each one,
// printing per-link status to w.
func (c *Checker) Run(ctx context.Context, htmlDir string, w io.Writer) (Report, error) {
	links, err := ExtractLinks(htmlDir)
	if err != nil {
		return Report{}, fmt.Errorf("extracting links: %w", err)
	}

	var report Report
	for i, link := range links {
		if i > 0 && c.cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(c.cfg.RequestDelay):
			}
		}

		report.Checked++
		status, reason := c.check(ctx, link.URL, w)
		if reason == "" {
			fmt.Fprintf(w, "ok: %s\n", link.URL)
			continue
		}

		report.Broken = append(report.Broken, BrokenLink{
			URL:    link.URL,
			Pages:  link.Pages,
			Status: status,
			Reason: reason,
		})
		fmt.Fprintf(w, "broken: %s (%s; referenced by %d pages)\n", link.URL, reason, len(link.Pages))
	}

	fmt.Fprintf(w, "\nLink check summary: %d checked, %d broken\n", report.Checked, len(report.Broken))
	return report, nil
}

// check performs one GET and classifies the outcome. An empty reason means
// the link resolved.
func (c *Checker) check(ctx context.Context, url string, w io.Writer) (int, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Sprintf("bad URL: %v", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries, w)
	if err != nil {
		return 0, err.Error()
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return resp.StatusCode, ""
}
