package ads

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/barekit/adscope/pkg/keyword"
)

func newTestExtractor(t *testing.T, handler http.HandlerFunc) (*Extractor, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	extractor, err := New(Config{
		DeveloperToken: "dev-token",
		Endpoint:       srv.URL,
		HTTPClient:     srv.Client(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return extractor, srv
}

func TestGenerateKeywordIdeas_RequiresCustomerID(t *testing.T) {
	extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("API should not be called without a customer ID")
	})

	_, err := extractor.GenerateKeywordIdeas(t.Context(), []string{"seo"}, nil, "")
	if !errors.Is(err, ErrNoCustomerID) {
		t.Fatalf("expected ErrNoCustomerID, got %v", err)
	}
}

func TestGenerateKeywordIdeas_ConvertsMicrosToCurrencyUnits(t *testing.T) {
	extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{
					"text": "digital marketing",
					"keywordIdeaMetrics": map[string]any{
						"avgMonthlySearches":     "12000",
						"competition":            "HIGH",
						"lowTopOfPageBidMicros":  "1250000",
						"highTopOfPageBidMicros": "2500000",
					},
				},
			},
		})
	})
	extractor.SetCustomerID("1234567890")

	records, err := extractor.GenerateKeywordIdeas(t.Context(), []string{"digital marketing"}, nil, "")
	if err != nil {
		t.Fatalf("GenerateKeywordIdeas failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Term != "digital marketing" {
		t.Errorf("Term = %q", rec.Term)
	}
	if rec.SearchVolume != 12000 {
		t.Errorf("SearchVolume = %d, want 12000", rec.SearchVolume)
	}
	if rec.Competition != keyword.CompetitionHigh {
		t.Errorf("Competition = %q, want HIGH", rec.Competition)
	}
	if rec.CPCHigh != 2.50 {
		t.Errorf("CPCHigh = %v, want exactly 2.50", rec.CPCHigh)
	}
	if rec.CPCLow != 1.25 {
		t.Errorf("CPCLow = %v, want 1.25", rec.CPCLow)
	}
	if rec.CurrencyCode != "USD" {
		t.Errorf("CurrencyCode = %q, want USD", rec.CurrencyCode)
	}
	if rec.RetrievedAt.IsZero() {
		t.Error("RetrievedAt not set")
	}
}

func TestGenerateKeywordIdeas_MissingMetricsDefaultToZero(t *testing.T) {
	extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"text": "bare idea"},
			},
		})
	})
	extractor.SetCustomerID("1234567890")

	records, err := extractor.GenerateKeywordIdeas(t.Context(), []string{"bare"}, nil, "")
	if err != nil {
		t.Fatalf("GenerateKeywordIdeas failed: %v", err)
	}

	rec := records[0]
	if rec.SearchVolume != 0 || rec.CPCLow != 0 || rec.CPCHigh != 0 {
		t.Errorf("missing metrics should default to zero, got %+v", rec)
	}
	if rec.Competition != keyword.CompetitionUnspecified {
		t.Errorf("Competition = %q, want UNSPECIFIED", rec.Competition)
	}
}

func TestGenerateKeywordIdeas_StripsCustomerIDSeparatorsAndSetsHeaders(t *testing.T) {
	var gotPath, gotToken, gotLogin string
	var gotBody map[string]any

	extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("developer-token")
		gotLogin = r.Header.Get("login-customer-id")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{})
	})
	extractor.cfg.LoginCustomerID = "987-654-3210"
	extractor.SetCustomerID("123-456-7890")

	_, err := extractor.GenerateKeywordIdeas(t.Context(), []string{"seo", "ppc"}, []string{"2840"}, "")
	if err != nil {
		t.Fatalf("GenerateKeywordIdeas failed: %v", err)
	}

	if !strings.Contains(gotPath, "customers/1234567890:generateKeywordIdeas") {
		t.Errorf("path = %q, separators not stripped", gotPath)
	}
	if gotToken != "dev-token" {
		t.Errorf("developer-token header = %q", gotToken)
	}
	if gotLogin != "9876543210" {
		t.Errorf("login-customer-id header = %q", gotLogin)
	}
	if gotBody["language"] != "languageConstants/1000" {
		t.Errorf("language = %v, want default English constant", gotBody["language"])
	}
	if gotBody["keywordPlanNetwork"] != "GOOGLE_SEARCH" {
		t.Errorf("keywordPlanNetwork = %v", gotBody["keywordPlanNetwork"])
	}
	geo, _ := gotBody["geoTargetConstants"].([]any)
	if len(geo) != 1 || geo[0] != "geoTargetConstants/2840" {
		t.Errorf("geoTargetConstants = %v", gotBody["geoTargetConstants"])
	}
}

func TestGenerateKeywordIdeas_FollowsPagination(t *testing.T) {
	calls := 0
	extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)

		if calls == 1 {
			if body["pageToken"] != nil {
				t.Errorf("first request carried pageToken %v", body["pageToken"])
			}
			json.NewEncoder(w).Encode(map[string]any{
				"results":       []map[string]any{{"text": "page one"}},
				"nextPageToken": "tok-2",
			})
			return
		}

		if body["pageToken"] != "tok-2" {
			t.Errorf("second request pageToken = %v, want tok-2", body["pageToken"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"text": "page two"}},
		})
	})
	extractor.SetCustomerID("1234567890")

	records, err := extractor.GenerateKeywordIdeas(t.Context(), []string{"seo"}, nil, "")
	if err != nil {
		t.Fatalf("GenerateKeywordIdeas failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 API calls, got %d", calls)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Term != "page one" || records[1].Term != "page two" {
		t.Errorf("records out of order: %q, %q", records[0].Term, records[1].Term)
	}
}

func TestGenerateKeywordIdeas_UpstreamFailureSurfacesFetchError(t *testing.T) {
	extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	})
	extractor.SetCustomerID("1234567890")

	_, err := extractor.GenerateKeywordIdeas(t.Context(), []string{"seo"}, nil, "")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", fetchErr.StatusCode)
	}
	if !strings.Contains(fetchErr.Message, "quota exceeded") {
		t.Errorf("Message = %q, upstream error not carried", fetchErr.Message)
	}
}

func TestNew_RequiresCredentialsWithoutCustomClient(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for missing developer token")
	}
	if _, err := New(Config{DeveloperToken: "dev-token"}); err == nil {
		t.Error("expected error for missing OAuth credentials")
	}
}
