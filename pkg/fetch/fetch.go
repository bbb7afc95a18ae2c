// Package fetch pulls law document pages from an HTML portal so they can be
// fed through the ingestion pipeline alongside locally extracted PDF text.
package fetch

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// Page is one fetched law page: its title becomes the source name, its text
// goes to the chunker.
type Page struct {
	URL   string
	Title string
	Text  string
}

type FetcherConfig struct {
	BaseURL        string
	MaxDepth       int
	RateLimit      float64 // requests per second
	IgnorePatterns []string
	Timeout        time.Duration
	OnProgress     func(url string)
}

type Fetcher struct {
	config   FetcherConfig
	client   *http.Client
	visited  map[string]bool
	limiter  *rate.Limiter
	baseHost string
}

func NewWithConfig(config FetcherConfig) (*Fetcher, error) {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxDepth == 0 {
		config.MaxDepth = 2
	}
	if config.RateLimit == 0 {
		config.RateLimit = 1 // be polite to government portals
	}

	parsedURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		visited:  make(map[string]bool),
		limiter:  rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		baseHost: parsedURL.Host,
	}, nil
}

func (f *Fetcher) shouldFetch(urlStr string) bool {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	if parsedURL.Host != f.baseHost {
		return false
	}

	for _, pattern := range f.config.IgnorePatterns {
		if strings.Contains(urlStr, pattern) {
			return false
		}
	}

	return true
}

func (f *Fetcher) extractText(doc *goquery.Document) string {
	// Law portals usually put the statute body in one of these containers
	selectors := []string{
		"main",
		"article",
		".content",
		"#content",
		".peraturan",
		"#peraturan",
	}

	var text string
	for _, selector := range selectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			text = selected.Text()
			break
		}
	}

	if text == "" {
		text = doc.Find("body").Text()
	}

	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}

// Fetch crawls from the start URL up to the configured depth and returns
// every page with extractable text.
func (f *Fetcher) Fetch(startURL string) ([]Page, error) {
	var pages []Page
	err := f.fetchRecursive(startURL, 0, &pages)
	return pages, err
}

func (f *Fetcher) fetchRecursive(urlStr string, depth int, pages *[]Page) error {
	if depth > f.config.MaxDepth || f.visited[urlStr] {
		return nil
	}

	if !f.shouldFetch(urlStr) {
		return nil
	}

	f.visited[urlStr] = true
	if f.config.OnProgress != nil {
		f.config.OnProgress(urlStr)
	}

	if err := f.limiter.Wait(context.Background()); err != nil {
		return err
	}

	resp, err := f.client.Get(urlStr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, urlStr)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return err
	}

	text := f.extractText(doc)
	title := strings.TrimSpace(doc.Find("title").Text())
	if title == "" {
		title = urlStr
	}
	if text != "" {
		*pages = append(*pages, Page{
			URL:   urlStr,
			Title: title,
			Text:  text,
		})
	}

	doc.Find("a[href]").Each(func(_ int, selection *goquery.Selection) {
		href, exists := selection.Attr("href")
		if !exists {
			return
		}

		absoluteURL, err := url.Parse(href)
		if err != nil {
			return
		}
		if !absoluteURL.IsAbs() {
			base, err := url.Parse(urlStr)
			if err != nil {
				return
			}
			absoluteURL = base.ResolveReference(absoluteURL)
		}

		if err := f.fetchRecursive(absoluteURL.String(), depth+1, pages); err != nil {
			log.Printf("Error fetching URL: %v", err)
		}
	})

	return nil
}
