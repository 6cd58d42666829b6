package randomuser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/izniy/NexusBook/common"
	"github.com/izniy/NexusBook/common/model"
	"github.com/izniy/NexusBook/modules/directory"
)

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 1024

// RandomUserClient is a lower-level interface for fetching users from the random user API.
type RandomUserClient interface {
	FetchBatch(ctx context.Context, count int) ([]model.Contact, error)
}

// randomUserClient implements RandomUserClient.
type randomUserClient struct {
	BaseURL string
	Client  common.HttpClient
	Metrics *common.Metrics
}

var _ directory.Upstream = (*randomUserClient)(nil)

// NewRandomUserClient constructs a randomUserClient. The baseURL is typically
// "https://randomuser.me/api/". An empty baseURL is accepted here and
// reported by FetchBatch as directory.ErrUpstreamConfigMissing.
func NewRandomUserClient(baseURL string, client common.HttpClient, metrics *common.Metrics) RandomUserClient {
	return &randomUserClient{
		BaseURL: baseURL,
		Client:  client,
		Metrics: metrics,
	}
}

// FetchBatch performs GET {baseURL}?results=count and maps the records to contacts.
func (c *randomUserClient) FetchBatch(ctx context.Context, count int) ([]model.Contact, error) {
	if c.BaseURL == "" {
		return nil, directory.ErrUpstreamConfigMissing
	}
	if count < 1 {
		return nil, &directory.UpstreamError{Op: "build url", Err: fmt.Errorf("batch size must be positive, got %d", count)}
	}

	requestURL, err := c.buildURL(count)
	if err != nil {
		return nil, &directory.UpstreamError{Op: "build url", Err: err}
	}

	start := time.Now()
	contacts, err := c.doGetUsers(ctx, requestURL)
	c.Metrics.ObserveUpstream(time.Since(start).Seconds(), err)
	return contacts, err
}

// doGetUsers executes the actual HTTP request and decodes the JSON response.
func (c *randomUserClient) doGetUsers(ctx context.Context, requestURL string) ([]model.Contact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &directory.UpstreamError{Op: "create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, &directory.UpstreamError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &directory.UpstreamError{
			Op:  "request",
			Err: &common.HTTPError{StatusCode: resp.StatusCode, Body: body},
		}
	}

	var payload model.UserResponse
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &directory.UpstreamError{Op: "decode", Err: err}
	}
	if payload.Results == nil {
		return nil, &directory.UpstreamError{Op: "decode", Err: errors.New("response has no results array")}
	}

	records := *payload.Results
	contacts := make([]model.Contact, 0, len(records))
	for i, rec := range records {
		if rec.Login.UUID == "" {
			return nil, &directory.UpstreamError{Op: "decode", Err: fmt.Errorf("record %d has no login.uuid", i)}
		}
		contacts = append(contacts, rec.ToContact())
	}
	return contacts, nil
}

// buildURL adds the results parameter to the base URL, keeping any query it already has.
func (c *randomUserClient) buildURL(count int) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: scheme and host are required", c.BaseURL)
	}
	q := base.Query()
	q.Set("results", strconv.Itoa(count))
	base.RawQuery = q.Encode()
	return base.String(), nil
}
