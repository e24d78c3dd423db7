package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the local Anytype API endpoint.
	DefaultBaseURL = "http://localhost:31009/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// RequestsPerSecond bounds the request rate against the local API.
	RequestsPerSecond = 20.0
)

// Anytype is a rate-limited HTTP client for the Anytype object API,
// scoped to a single space.
type Anytype struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string
	spaceID    string

	// typeNames maps entity kinds to the space's object type names.
	typeNames map[EntityKind]string
}

// AnytypeOption configures an Anytype client.
type AnytypeOption func(*Anytype)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) AnytypeOption {
	return func(a *Anytype) { a.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) AnytypeOption {
	return func(a *Anytype) { a.baseURL = url }
}

// WithTypeNames overrides the object type name used for each entity kind.
func WithTypeNames(names map[EntityKind]string) AnytypeOption {
	return func(a *Anytype) {
		for k, v := range names {
			a.typeNames[k] = v
		}
	}
}

// NewAnytype creates a client for the given space.
func NewAnytype(token, spaceID string, opts ...AnytypeOption) *Anytype {
	a := &Anytype{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RequestsPerSecond), 1),
		baseURL:    DefaultBaseURL,
		token:      token,
		spaceID:    spaceID,
		typeNames: map[EntityKind]string{
			KindArticle: "Article",
			KindPerson:  "Person",
			KindJournal: "Journal",
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ Store = (*Anytype)(nil)

type searchRequest struct {
	ObjectType string         `json:"objectType,omitempty"`
	Filters    []searchFilter `json:"filters,omitempty"`
	Offset     int            `json:"offset,omitempty"`
	Limit      int            `json:"limit,omitempty"`
}

type searchFilter struct {
	Property string `json:"property"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type searchResponse struct {
	Objects []Entity `json:"objects"`
	HasMore bool     `json:"hasMore"`
}

// QueryByKind returns one page of objects of the given kind.
func (a *Anytype) QueryByKind(ctx context.Context, kind EntityKind, page, pageSize int) (Page, error) {
	req := searchRequest{
		ObjectType: a.typeNames[kind],
		Offset:     page * pageSize,
		Limit:      pageSize,
	}
	var resp searchResponse
	if err := a.post(ctx, "/objects/search", req, &resp); err != nil {
		return Page{}, err
	}
	return Page{Items: resp.Objects, HasMore: resp.HasMore}, nil
}

// QueryByField returns objects of the given kind whose property exactly
// equals value.
func (a *Anytype) QueryByField(ctx context.Context, kind EntityKind, key, value string) ([]Entity, error) {
	req := searchRequest{
		ObjectType: a.typeNames[kind],
		Filters:    []searchFilter{{Property: key, Operator: "equals", Value: value}},
		Limit:      25,
	}
	var resp searchResponse
	if err := a.post(ctx, "/objects/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Objects, nil
}

// Create adds a new object and returns its id.
func (a *Anytype) Create(ctx context.Context, kind EntityKind, name string, fields map[string]Field) (string, error) {
	req := struct {
		ObjectType string           `json:"objectType"`
		Name       string           `json:"name"`
		Fields     map[string]Field `json:"fields,omitempty"`
	}{a.typeNames[kind], name, fields}

	var resp Entity
	if err := a.post(ctx, "/objects", req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", &APIError{StatusCode: http.StatusOK, Message: "create response missing id"}
	}
	return resp.ID, nil
}

// Update replaces fields on an existing object.
func (a *Anytype) Update(ctx context.Context, id string, fields map[string]Field) error {
	req := struct {
		Fields map[string]Field `json:"fields"`
	}{fields}
	return a.do(ctx, http.MethodPatch, "/objects/"+id, req, nil)
}

// UploadFile uploads a local file and returns the created file id.
func (a *Anytype) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url("/files"), &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp Entity
	if err := a.send(req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", &APIError{StatusCode: http.StatusOK, Message: "upload response missing id"}
	}
	return resp.ID, nil
}

// AttachFile links an uploaded file to an object.
func (a *Anytype) AttachFile(ctx context.Context, objectID, fileID, relationKey string) error {
	req := struct {
		FileID      string `json:"fileId"`
		RelationKey string `json:"relationKey"`
	}{fileID, relationKey}
	return a.do(ctx, http.MethodPost, "/objects/"+objectID+"/files", req, nil)
}

func (a *Anytype) url(path string) string {
	return fmt.Sprintf("%s/spaces/%s%s", a.baseURL, a.spaceID, path)
}

func (a *Anytype) post(ctx context.Context, path string, payload, out any) error {
	return a.do(ctx, http.MethodPost, path, payload, out)
}

func (a *Anytype) do(ctx context.Context, method, path string, payload, out any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.url(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return a.send(req, out)
}

func (a *Anytype) send(req *http.Request, out any) error {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return &APIError{StatusCode: resp.StatusCode, Message: string(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "invalid JSON in response"}
	}
	return nil
}
