package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alberto/anybib/internal/reference"
)

const (
	// CrossRefBaseURL is the CrossRef works API base URL.
	CrossRefBaseURL = "https://api.crossref.org/works"

	// crossRefRateLimit stays well under CrossRef's polite-pool guidance.
	crossRefRateLimit = 10.0

	userAgent = "anybib/0.1 (+https://github.com/alberto/anybib)"
)

// CrossRef resolves DOIs against the CrossRef REST API.
type CrossRef struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// CrossRefOption configures a CrossRef resolver.
type CrossRefOption func(*CrossRef)

// WithCrossRefHTTPClient sets a custom HTTP client.
func WithCrossRefHTTPClient(hc *http.Client) CrossRefOption {
	return func(c *CrossRef) {
		c.httpClient = hc
	}
}

// WithCrossRefBaseURL sets a custom base URL (for testing).
func WithCrossRefBaseURL(u string) CrossRefOption {
	return func(c *CrossRef) {
		c.baseURL = u
	}
}

// WithMailto sets the mailto contact that admits requests to CrossRef's
// polite pool.
func WithMailto(mailto string) CrossRefOption {
	return func(c *CrossRef) {
		c.mailto = mailto
	}
}

// NewCrossRef creates a CrossRef resolver.
func NewCrossRef(opts ...CrossRefOption) *CrossRef {
	c := &CrossRef{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(crossRefRateLimit), 1),
		baseURL:    CrossRefBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// crossRefWork is the subset of the CrossRef message payload we consume.
type crossRefWork struct {
	DOI            string     `json:"DOI"`
	Type           string     `json:"type"`
	Title          []string   `json:"title"`
	ContainerTitle []string   `json:"container-title"`
	ShortContainer []string   `json:"short-container-title"`
	Publisher      string     `json:"publisher"`
	Volume         string     `json:"volume"`
	Issue          string     `json:"issue"`
	Page           string     `json:"page"`
	URL            string     `json:"URL"`
	PublishedPrint *dateParts `json:"published-print"`
	PublishedOnln  *dateParts `json:"published-online"`
	Issued         *dateParts `json:"issued"`
	Author         []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
		ORCID  string `json:"ORCID"`
	} `json:"author"`
}

type dateParts struct {
	DateParts [][]int `json:"date-parts"`
}

func (d *dateParts) year() int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}

// Resolve fetches work metadata for a DOI.
func (c *CrossRef) Resolve(ctx context.Context, identifier string) (*reference.Record, error) {
	doi := reference.NormalizeIdentifier(identifier)
	if doi == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrNotFound)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/" + url.PathEscape(doi)
	if c.mailto != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying crossref: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: doi %s", ErrNotFound, doi)
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "crossref request failed"}
	}

	var payload struct {
		Message *crossRefWork `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding crossref response: %w", err)
	}
	if payload.Message == nil {
		return nil, fmt.Errorf("crossref response missing message payload")
	}

	return crossRefRecord(payload.Message, doi), nil
}

func crossRefRecord(w *crossRefWork, fallbackDOI string) *reference.Record {
	rec := &reference.Record{
		Identifier: reference.NormalizeIdentifier(firstNonEmpty(w.DOI, fallbackDOI)),
		Kind:       mapCrossRefType(w.Type),
		Publisher:  w.Publisher,
		Volume:     w.Volume,
		Issue:      w.Issue,
		Pages:      w.Page,
		URL:        w.URL,
	}
	if len(w.Title) > 0 {
		rec.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		rec.Venue = w.ContainerTitle[0]
	}
	if len(w.ShortContainer) > 0 {
		rec.ShortVenue = w.ShortContainer[0]
	}

	// Year preference order: print, online, issued.
	for _, d := range []*dateParts{w.PublishedPrint, w.PublishedOnln, w.Issued} {
		if y := d.year(); y != 0 {
			rec.Year = y
			break
		}
	}

	for _, a := range w.Author {
		if a.Family == "" {
			continue
		}
		full := strings.TrimSpace(a.Given + " " + a.Family)
		rec.Authors = append(rec.Authors, reference.Author{
			FullName: full,
			Given:    a.Given,
			Family:   a.Family,
			ORCID:    strings.TrimPrefix(a.ORCID, "https://orcid.org/"),
		})
	}

	return rec
}

func mapCrossRefType(t string) reference.Kind {
	switch t {
	case "journal-article", "proceedings-article":
		return reference.KindArticle
	case "book", "monograph", "edited-book":
		return reference.KindBook
	case "book-chapter", "book-section":
		return reference.KindChapter
	}
	return reference.KindOther
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
