// Package ads fetches keyword ideas and their metrics from the Google Ads
// keyword planning REST API.
package ads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/barekit/adscope/pkg/keyword"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultEndpoint = "https://googleads.googleapis.com"
	apiVersion      = "v16"

	// DefaultLanguageID is the Google Ads language constant for English.
	DefaultLanguageID = "1000"

	adwordsScope = "https://www.googleapis.com/auth/adwords"

	microsPerUnit = 1_000_000
)

// ErrNoCustomerID is returned when keyword ideas are requested before a
// customer ID has been bound with SetCustomerID.
var ErrNoCustomerID = errors.New("ads: customer ID must be set before making API calls")

// FetchError wraps a failed keyword ideas request. StatusCode is zero when
// the request never reached the API.
type FetchError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ads: keyword ideas request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ads: keyword ideas request failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config holds the credentials and options for the Google Ads API. All
// fields are explicit; nothing is read from process-global state.
type Config struct {
	DeveloperToken  string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	LoginCustomerID string
	// Endpoint overrides the API base URL. Used in tests.
	Endpoint string
	// HTTPClient overrides the OAuth2-authenticated client. Used in tests.
	HTTPClient *http.Client
}

// Extractor fetches keyword ideas for a bound customer account.
type Extractor struct {
	cfg        Config
	httpClient *http.Client
	customerID string
}

// New creates a new Extractor. The OAuth2 token exchange and refresh are
// handled by the oauth2 transport; the extractor itself never retries.
func New(cfg Config) (*Extractor, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		if cfg.DeveloperToken == "" {
			return nil, errors.New("ads: developer token is required")
		}
		if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
			return nil, errors.New("ads: client ID, client secret, and refresh token are required")
		}
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{adwordsScope},
		}
		httpClient = oauthCfg.Client(context.Background(), &oauth2.Token{RefreshToken: cfg.RefreshToken})
	}

	return &Extractor{
		cfg:        cfg,
		httpClient: httpClient,
	}, nil
}

// SetCustomerID binds the Google Ads customer account. Separator dashes
// (e.g. "123-456-7890") are stripped before use.
func (e *Extractor) SetCustomerID(customerID string) {
	e.customerID = strings.ReplaceAll(customerID, "-", "")
}

// keywordIdeasRequest is the JSON body of customers/{id}:generateKeywordIdeas.
type keywordIdeasRequest struct {
	Language           string      `json:"language,omitempty"`
	GeoTargetConstants []string    `json:"geoTargetConstants,omitempty"`
	KeywordSeed        keywordSeed `json:"keywordSeed"`
	KeywordPlanNetwork string      `json:"keywordPlanNetwork"`
	PageToken          string      `json:"pageToken,omitempty"`
}

type keywordSeed struct {
	Keywords []string `json:"keywords"`
}

type keywordIdeasResponse struct {
	Results       []keywordIdea `json:"results"`
	NextPageToken string        `json:"nextPageToken"`
}

type keywordIdea struct {
	Text    string       `json:"text"`
	Metrics *ideaMetrics `json:"keywordIdeaMetrics"`
}

// ideaMetrics uses json.Number because the REST API encodes int64 fields as
// quoted strings.
type ideaMetrics struct {
	AvgMonthlySearches     json.Number `json:"avgMonthlySearches"`
	Competition            string      `json:"competition"`
	LowTopOfPageBidMicros  json.Number `json:"lowTopOfPageBidMicros"`
	HighTopOfPageBidMicros json.Number `json:"highTopOfPageBidMicros"`
}

// GenerateKeywordIdeas expands the seed terms into keyword ideas with
// metrics. locationIDs are geo target constant IDs; languageID defaults to
// English when empty. Fails with ErrNoCustomerID if SetCustomerID has not
// been called. Upstream failures surface as *FetchError; there is no local
// retry.
func (e *Extractor) GenerateKeywordIdeas(ctx context.Context, seeds []string, locationIDs []string, languageID string) ([]keyword.Record, error) {
	if e.customerID == "" {
		return nil, ErrNoCustomerID
	}
	if languageID == "" {
		languageID = DefaultLanguageID
	}

	geoTargets := make([]string, len(locationIDs))
	for i, loc := range locationIDs {
		geoTargets[i] = "geoTargetConstants/" + loc
	}

	var records []keyword.Record
	pageToken := ""
	for {
		reqBody := keywordIdeasRequest{
			Language:           "languageConstants/" + languageID,
			GeoTargetConstants: geoTargets,
			KeywordSeed:        keywordSeed{Keywords: seeds},
			KeywordPlanNetwork: "GOOGLE_SEARCH",
			PageToken:          pageToken,
		}

		resp, err := e.post(ctx, reqBody)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		for _, idea := range resp.Results {
			records = append(records, ideaToRecord(idea, now))
		}

		if resp.NextPageToken == "" {
			return records, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (e *Extractor) post(ctx context.Context, body keywordIdeasRequest) (*keywordIdeasResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	url := fmt.Sprintf("%s/%s/customers/%s:generateKeywordIdeas", e.cfg.Endpoint, apiVersion, e.customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", e.cfg.DeveloperToken)
	if e.cfg.LoginCustomerID != "" {
		req.Header.Set("login-customer-id", strings.ReplaceAll(e.cfg.LoginCustomerID, "-", ""))
	}

	httpResp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &FetchError{StatusCode: httpResp.StatusCode, Err: err}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			StatusCode: httpResp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	var resp keywordIdeasResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &FetchError{StatusCode: httpResp.StatusCode, Err: err}
	}
	return &resp, nil
}

// ideaToRecord maps one API idea onto a Record. Missing numeric fields
// default to zero and micros-denominated bids are converted to currency
// units.
func ideaToRecord(idea keywordIdea, retrievedAt time.Time) keyword.Record {
	rec := keyword.Record{
		Term:         idea.Text,
		Competition:  keyword.CompetitionUnspecified,
		CurrencyCode: "USD",
		RetrievedAt:  retrievedAt,
	}

	if idea.Metrics == nil {
		return rec
	}

	rec.SearchVolume = numberToInt64(idea.Metrics.AvgMonthlySearches)
	rec.CPCLow = microsToUnits(numberToInt64(idea.Metrics.LowTopOfPageBidMicros))
	rec.CPCHigh = microsToUnits(numberToInt64(idea.Metrics.HighTopOfPageBidMicros))
	if idea.Metrics.Competition != "" {
		rec.Competition = keyword.Competition(idea.Metrics.Competition)
	}
	return rec
}

func numberToInt64(n json.Number) int64 {
	if n == "" {
		return 0
	}
	v, err := n.Int64()
	if err != nil {
		return 0
	}
	return v
}

func microsToUnits(micros int64) float64 {
	return float64(micros) / microsPerUnit
}
