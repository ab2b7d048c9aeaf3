// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package linkcheck verifies external links in the built HTML tree.
// See docs/ARCHITECTURE § Link Checking.
package linkcheck

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Link is one external URL and the pages that reference it.
type Link struct {
	URL   string
	Pages []string
}

// ExtractLinks walks the HTML files under root and collects external
// http(s) links from href and src attributes. Fragments are stripped and
// URLs deduplicated; relative links, anchors, and mailto links are the
// generator's concern and are skipped.
func ExtractLinks(root string) ([]Link, error) {
	pagesByURL := make(map[string]map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		urls, err := pageLinks(path)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", rel, err)
		}
		for _, u := range urls {
			if pagesByURL[u] == nil {
				pagesByURL[u] = make(map[string]bool)
			}
			pagesByURL[u][rel] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	links := make([]Link, 0, len(pagesByURL))
	for u, pages := range pagesByURL {
		link := Link{URL: u, Pages: make([]string, 0, len(pages))}
		for p := range pages {
			link.Pages = append(link.Pages, p)
		}
		sort.Strings(link.Pages)
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].URL < links[j].URL })
	return links, nil
}

// pageLinks tokenizes one HTML file and returns its external URLs.
func pageLinks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	z := html.NewTokenizer(f)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF ends the document; anything else is tolerated too,
			// since the generator's output is not ours to validate.
			return urls, nil
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		token := z.Token()
		for _, attr := range token.Attr {
			if attr.Key != "href" && attr.Key != "src" {
				continue
			}
			if u, ok := externalURL(attr.Val); ok {
				urls = append(urls, u)
			}
		}
	}
}

// externalURL normalizes val and reports whether it is an absolute http(s)
// URL worth checking.
func externalURL(val string) (string, bool) {
	val = strings.TrimSpace(val)
	if !strings.HasPrefix(val, "http://") && !strings.HasPrefix(val, "https://") {
		return "", false
	}
	// Fragments point inside a page; the page itself is what gets checked.
	if i := strings.IndexByte(val, '#'); i >= 0 {
		val = val[:i]
	}
	if val == "http://" || val == "https://" {
		return "", false
	}
	return val, true
}
