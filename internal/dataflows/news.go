package dataflows

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// Headline is one scraped financial news item.
type Headline struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"published_at"`
}

// NewsClient scrapes financial headlines from the Google News RSS feed.
type NewsClient struct {
	client  *resty.Client
	cache   *CacheManager
	baseURL string
}

func NewNewsClient(cacheDir string, cacheEnabled bool) *NewsClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	return &NewsClient{
		client:  client,
		cache:   NewCacheManager(filepath.Join(cacheDir, "news"), 30*time.Minute, cacheEnabled),
		baseURL: "https://news.google.com/rss/search",
	}
}

// SetBaseURL overrides the feed endpoint, mainly for tests.
func (nc *NewsClient) SetBaseURL(baseURL string) {
	nc.baseURL = baseURL
}

// GetHeadlines fetches up to maxResults financial headlines for query.
func (nc *NewsClient) GetHeadlines(query string, maxResults int) ([]*Headline, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	params := map[string]any{"query": query, "max": maxResults}
	var cached []*Headline
	if nc.cache.Get("news", "headlines", params, &cached) {
		return cached, nil
	}

	feedURL := fmt.Sprintf("%s?q=%s&hl=en-US&gl=US&ceid=US:en", nc.baseURL, url.QueryEscape(query))

	var body []byte
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := nc.client.R().Get(feedURL)
		if err != nil {
			return fmt.Errorf("fetch news feed: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("news feed returned status %d", resp.StatusCode())
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse news feed: %w", err)
	}

	var headlines []*Headline
	for _, item := range feed.Channel.Items {
		if len(headlines) >= maxResults {
			break
		}
		headlines = append(headlines, &Headline{
			Title:       strings.TrimSpace(item.Title),
			Link:        item.Link,
			Summary:     stripHTML(item.Description),
			PublishedAt: parsePubDate(item.PubDate),
		})
	}

	nc.cache.Set("news", "headlines", params, headlines)
	return headlines, nil
}

// stripHTML reduces an RSS description fragment to its visible text.
func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

func parsePubDate(raw string) time.Time {
	for _, format := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(format, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
