package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Result is one hit from an external vendor search page.
type Result struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Source      string   `json:"source"`
	Link        string   `json:"link"`
}

// Client aggregates search results scraped from external NDT vendor sites.
type Client struct {
	sources    []string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(sources []string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		sources: sources,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Search queries every configured source and merges their results. A source
// that is down or returns nothing is skipped; when every source comes back
// empty, a single placeholder result is returned instead of an empty list.
func (c *Client) Search(ctx context.Context, query string) []Result {
	var results []Result
	for _, base := range c.sources {
		found, err := c.fetch(ctx, base, query)
		if err != nil {
			c.log.Warn("search source failed", "source", base, "error", err)
			continue
		}
		results = append(results, found...)
	}

	if len(results) == 0 {
		results = append(results, Result{
			Title:       "No results",
			Description: "Search endpoints unavailable or returned no data.",
			Features:    []string{},
			Source:      "system",
			Link:        "#",
		})
	}
	return results
}

func (c *Client) fetch(ctx context.Context, base, query string) ([]Result, error) {
	u := strings.TrimRight(base, "/") + "/search?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch %s: status %d", u, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return parseResults(doc, sourceName(base)), nil
}

// parseResults extracts every ".search-result" card from a vendor page.
// Cards without a title or link are dropped.
func parseResults(doc *html.Node, source string) []Result {
	var results []Result
	for _, card := range nodesByClass(doc, "search-result") {
		title := textContent(firstByTag(card, "h3"))
		link := attrVal(firstByTag(card, "a"), "href")
		if title == "" || link == "" {
			continue
		}

		var features []string
		// Vendor pages disagree on the chip class name.
		for _, tag := range nodesByClass(card, "tag") {
			features = append(features, textContent(tag))
		}
		for _, tag := range nodesByClass(card, "feature") {
			features = append(features, textContent(tag))
		}

		results = append(results, Result{
			Title:       title,
			Description: textContent(firstByClass(card, "description")),
			Features:    features,
			Source:      source,
			Link:        link,
		})
	}
	return results
}

func sourceName(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Hostname() == "" {
		return base
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func nodesByClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if hasClass(n, class) {
			out = append(out, n)
			return // Don't collect nested matches inside a match.
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func firstByClass(n *html.Node, class string) *html.Node {
	nodes := nodesByClass(n, class)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func firstByTag(n *html.Node, tag string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return found
}

func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func attrVal(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
