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

// DataCiteBaseURL is the DataCite REST API base URL.
const DataCiteBaseURL = "https://api.datacite.org/dois"

// DataCite resolves DOIs against the DataCite REST API. It covers
// datasets, preprints, and other records CrossRef does not index.
type DataCite struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// DataCiteOption configures a DataCite resolver.
type DataCiteOption func(*DataCite)

// WithDataCiteHTTPClient sets a custom HTTP client.
func WithDataCiteHTTPClient(hc *http.Client) DataCiteOption {
	return func(d *DataCite) {
		d.httpClient = hc
	}
}

// WithDataCiteBaseURL sets a custom base URL (for testing).
func WithDataCiteBaseURL(u string) DataCiteOption {
	return func(d *DataCite) {
		d.baseURL = u
	}
}

// NewDataCite creates a DataCite resolver.
func NewDataCite(opts ...DataCiteOption) *DataCite {
	d := &DataCite{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10.0), 1),
		baseURL:    DataCiteBaseURL,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type dataCiteAttributes struct {
	DOI    string `json:"doi"`
	Titles []struct {
		Title string `json:"title"`
	} `json:"titles"`
	Creators []struct {
		Name       string `json:"name"`
		GivenName  string `json:"givenName"`
		FamilyName string `json:"familyName"`
		NameIdents []struct {
			Scheme     string `json:"nameIdentifierScheme"`
			Identifier string `json:"nameIdentifier"`
		} `json:"nameIdentifiers"`
	} `json:"creators"`
	PublicationYear int    `json:"publicationYear"`
	Publisher       string `json:"publisher"`
	URL             string `json:"url"`
	Types           struct {
		ResourceTypeGeneral string `json:"resourceTypeGeneral"`
	} `json:"types"`
	Container struct {
		Title string `json:"title"`
	} `json:"container"`
}

// Resolve fetches DOI metadata from DataCite.
func (d *DataCite) Resolve(ctx context.Context, identifier string) (*reference.Record, error) {
	doi := reference.NormalizeIdentifier(identifier)
	if doi == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrNotFound)
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/"+url.PathEscape(doi), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying datacite: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: doi %s", ErrNotFound, doi)
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "datacite request failed"}
	}

	var payload struct {
		Data struct {
			Attributes dataCiteAttributes `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding datacite response: %w", err)
	}

	return dataCiteRecord(&payload.Data.Attributes, doi), nil
}

func dataCiteRecord(attrs *dataCiteAttributes, fallbackDOI string) *reference.Record {
	rec := &reference.Record{
		Identifier: reference.NormalizeIdentifier(firstNonEmpty(attrs.DOI, fallbackDOI)),
		Kind:       mapDataCiteType(attrs.Types.ResourceTypeGeneral),
		Year:       attrs.PublicationYear,
		Publisher:  attrs.Publisher,
		Venue:      attrs.Container.Title,
		URL:        attrs.URL,
	}
	if len(attrs.Titles) > 0 {
		rec.Title = attrs.Titles[0].Title
	}

	for _, c := range attrs.Creators {
		full := strings.TrimSpace(c.GivenName + " " + c.FamilyName)
		if full == "" {
			full = c.Name
		}
		if full == "" {
			continue
		}
		author := reference.Author{
			FullName: full,
			Given:    c.GivenName,
			Family:   c.FamilyName,
		}
		for _, id := range c.NameIdents {
			if id.Scheme == "ORCID" {
				author.ORCID = strings.TrimPrefix(id.Identifier, "https://orcid.org/")
			}
		}
		rec.Authors = append(rec.Authors, author)
	}

	return rec
}

func mapDataCiteType(t string) reference.Kind {
	switch t {
	case "JournalArticle", "ConferencePaper", "Preprint", "Text":
		return reference.KindArticle
	case "Book":
		return reference.KindBook
	case "BookChapter":
		return reference.KindChapter
	}
	return reference.KindOther
}
