package tcgplayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/codyseavey/cardwatch/internal/metrics"
	"github.com/codyseavey/cardwatch/internal/models"
)

const (
	defaultBaseURL = "https://api.tcgplayer.com"
	defaultTimeout = 10 * time.Second

	// pokemonCategoryID is the upstream catalog category for Pokemon products
	pokemonCategoryID = 3
)

// Options configures a Client. Zero values fall back to upstream-friendly
// defaults matching the free API tier.
type Options struct {
	BaseURL        string
	AccessToken    string
	RequestDelay   time.Duration
	SearchPageSize int
	ChunkSize      int
	Timeout        time.Duration
	SearchCacheLen int
}

// Client talks to the TCGplayer pricing API. All requests go out one at a
// time through a rate limiter so the fixed inter-call delay is respected;
// callers must never fan chunks out concurrently.
type Client struct {
	client      *http.Client
	baseURL     string
	accessToken string
	pageSize    int
	chunkSize   int
	limiter     *rate.Limiter

	// Search results are stable within a process lifetime, so id lists are
	// cached per (set, rarity) to avoid burning quota on repeat lookups.
	searchCache *lru.Cache[string, []int]
}

// NewClient creates a pricing API client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.RequestDelay <= 0 {
		opts.RequestDelay = 200 * time.Millisecond
	}
	if opts.SearchPageSize <= 0 {
		opts.SearchPageSize = 200
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.SearchCacheLen <= 0 {
		opts.SearchCacheLen = 512
	}

	cache, err := lru.New[string, []int](opts.SearchCacheLen)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	return &Client{
		client:      &http.Client{Timeout: opts.Timeout},
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		accessToken: opts.AccessToken,
		pageSize:    opts.SearchPageSize,
		chunkSize:   opts.ChunkSize,
		limiter:     rate.NewLimiter(rate.Every(opts.RequestDelay), 1),
		searchCache: cache,
	}, nil
}

type searchRequest struct {
	Limit   int            `json:"limit"`
	Filters []searchFilter `json:"filters"`
}

type searchFilter struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type searchResponse struct {
	Results []int `json:"results"`
}

type productResponse struct {
	Results []models.ProductInfo `json:"results"`
}

type priceResponse struct {
	Results []models.PriceInfo `json:"results"`
}

// SearchIDs returns the product ids matching a rarity within a set.
func (c *Client) SearchIDs(ctx context.Context, rarity models.Rarity, set string) ([]int, error) {
	cacheKey := set + "-" + string(rarity)
	if ids, ok := c.searchCache.Get(cacheKey); ok {
		metrics.SearchCacheHits.Inc()
		return ids, nil
	}
	metrics.SearchCacheMisses.Inc()

	body, err := json.Marshal(searchRequest{
		Limit: c.pageSize,
		Filters: []searchFilter{
			{Name: "Rarity", Values: []string{string(rarity)}},
			{Name: "SetName", Values: []string{set}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/catalog/categories/%d/search", c.baseURL, pokemonCategoryID)
	var searchResp searchResponse
	if err := c.do(ctx, http.MethodPost, reqURL, "search", body, &searchResp); err != nil {
		return nil, err
	}

	c.searchCache.Add(cacheKey, searchResp.Results)
	return searchResp.Results, nil
}

// GetProductInfo fetches product names for the given ids, chunked at the
// configured batch size. Ids the upstream does not know are simply absent
// from the result.
func (c *Client) GetProductInfo(ctx context.Context, ids []int) ([]models.ProductInfo, error) {
	var products []models.ProductInfo
	for _, chunk := range chunkIDs(ids, c.chunkSize) {
		reqURL := c.baseURL + "/catalog/products/" + joinIDs(chunk)
		var resp productResponse
		if err := c.do(ctx, http.MethodGet, reqURL, "products", nil, &resp); err != nil {
			return nil, err
		}
		products = append(products, resp.Results...)
	}
	return products, nil
}

// GetPriceInfo fetches current market prices for the given ids, chunked at
// the configured batch size. When cardType is non-empty, results are
// filtered to that finish subtype.
func (c *Client) GetPriceInfo(ctx context.Context, ids []int, cardType models.CardType) ([]models.PriceInfo, error) {
	var prices []models.PriceInfo
	for _, chunk := range chunkIDs(ids, c.chunkSize) {
		reqURL := c.baseURL + "/pricing/product/" + joinIDs(chunk)
		var resp priceResponse
		if err := c.do(ctx, http.MethodGet, reqURL, "prices", nil, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Results {
			if cardType != "" && p.SubTypeName != cardType {
				continue
			}
			prices = append(prices, p)
		}
	}
	return prices, nil
}

// do performs one rate-limited request and decodes the JSON response.
func (c *Client) do(ctx context.Context, method, reqURL, endpoint string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamErrorsTotal.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("pricing API error: %s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// chunkIDs splits ids into sequential slices of at most size elements.
func chunkIDs(ids []int, size int) [][]int {
	var chunks [][]int
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
