package tcgplayer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codyseavey/cardwatch/internal/models"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{
		BaseURL:      srv.URL,
		AccessToken:  "test-token",
		RequestDelay: time.Millisecond,
		ChunkSize:    100,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestSearchIDs(t *testing.T) {
	var gotAuth string
	var gotBody searchRequest
	calls := 0

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost || r.URL.Path != "/catalog/categories/3/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(searchResponse{Results: []int{101, 102}})
	}))

	ids, err := c.SearchIDs(context.Background(), models.RarityUltra, "Evolving Skies")
	if err != nil {
		t.Fatalf("SearchIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 101 {
		t.Errorf("ids = %v, want [101 102]", ids)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Limit != 200 {
		t.Errorf("Limit = %d, want the default page size 200", gotBody.Limit)
	}
	if len(gotBody.Filters) != 2 ||
		gotBody.Filters[0].Name != "Rarity" || gotBody.Filters[0].Values[0] != "Ultra Rare" ||
		gotBody.Filters[1].Name != "SetName" || gotBody.Filters[1].Values[0] != "Evolving Skies" {
		t.Errorf("filters = %+v", gotBody.Filters)
	}

	// A repeat lookup is served from the cache.
	if _, err := c.SearchIDs(context.Background(), models.RarityUltra, "Evolving Skies"); err != nil {
		t.Fatalf("SearchIDs (cached): %v", err)
	}
	if calls != 1 {
		t.Errorf("upstream calls = %d, want 1", calls)
	}
}

func TestGetProductInfoChunks(t *testing.T) {
	var requests []string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, strings.TrimPrefix(r.URL.Path, "/catalog/products/"))
		json.NewEncoder(w).Encode(productResponse{})
	}))

	ids := make([]int, 250)
	for i := range ids {
		ids[i] = i + 1
	}
	if _, err := c.GetProductInfo(context.Background(), ids); err != nil {
		t.Fatalf("GetProductInfo: %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("got %d requests, want 3 chunks of at most 100", len(requests))
	}
	if n := len(strings.Split(requests[0], ",")); n != 100 {
		t.Errorf("first chunk has %d ids, want 100", n)
	}
	if n := len(strings.Split(requests[2], ",")); n != 50 {
		t.Errorf("last chunk has %d ids, want 50", n)
	}
	if !strings.HasPrefix(requests[0], "1,2,") {
		t.Errorf("first chunk starts %q, want sequential order preserved", requests[0][:8])
	}
}

func TestGetPriceInfoFiltersSubtype(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(priceResponse{Results: []models.PriceInfo{
			{ProductID: 1, MarketPrice: 5.00, SubTypeName: models.CardTypeHolofoil},
			{ProductID: 1, MarketPrice: 2.00, SubTypeName: models.CardTypeReverseHolo},
			{ProductID: 2, MarketPrice: 9.00, SubTypeName: models.CardTypeHolofoil},
		}})
	}))

	prices, err := c.GetPriceInfo(context.Background(), []int{1, 2}, models.CardTypeHolofoil)
	if err != nil {
		t.Fatalf("GetPriceInfo: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("got %d prices, want 2 Holofoil rows", len(prices))
	}
	for _, p := range prices {
		if p.SubTypeName != models.CardTypeHolofoil {
			t.Errorf("subtype = %s, want Holofoil", p.SubTypeName)
		}
	}
}

func TestGetPriceInfoAllSubtypesWhenUnset(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(priceResponse{Results: []models.PriceInfo{
			{ProductID: 1, MarketPrice: 5.00, SubTypeName: models.CardTypeHolofoil},
			{ProductID: 1, MarketPrice: 2.00, SubTypeName: models.CardTypeReverseHolo},
		}})
	}))

	prices, err := c.GetPriceInfo(context.Background(), []int{1}, "")
	if err != nil {
		t.Fatalf("GetPriceInfo: %v", err)
	}
	if len(prices) != 2 {
		t.Errorf("got %d prices, want both subtypes", len(prices))
	}
}

func TestErrorStatus(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))

	_, err := c.GetProductInfo(context.Background(), []int{1})
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error = %v, want the status code mentioned", err)
	}
}

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		n, size int
		want    []int // chunk lengths
	}{
		{0, 100, nil},
		{1, 100, []int{1}},
		{100, 100, []int{100}},
		{101, 100, []int{100, 1}},
		{250, 100, []int{100, 100, 50}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_by_%d", tt.n, tt.size), func(t *testing.T) {
			ids := make([]int, tt.n)
			chunks := chunkIDs(ids, tt.size)
			if len(chunks) != len(tt.want) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.want))
			}
			for i, c := range chunks {
				if len(c) != tt.want[i] {
					t.Errorf("chunk %d has %d ids, want %d", i, len(c), tt.want[i])
				}
			}
		})
	}
}
