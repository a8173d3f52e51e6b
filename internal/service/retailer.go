package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// RetailerProduct is one hit from the grocery retailer's product search.
type RetailerProduct struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Barcode  string  `json:"barcode"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type retailerSearchResponse struct {
	Products []struct {
		ID    string  `json:"id"`
		Title string  `json:"title"`
		Brand string  `json:"brand"`
		EAN   string  `json:"ean"`
		Price float64 `json:"price"`
	} `json:"products"`
}

// RetailerService searches the grocery retailer's product API. Outbound
// calls go through a client-side limiter so the service stays within the
// retailer's published quota.
type RetailerService struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
}

func NewRetailerService(baseURL, apiKey string) *RetailerService {
	return &RetailerService{
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Search queries the retailer's product catalog. An upstream 429 is
// reported as a RateLimitedError; the request is not retried.
func (s *RetailerService) Search(ctx context.Context, query string) ([]RetailerProduct, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/products/search?q=%s", s.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retailer search request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through
	case http.StatusTooManyRequests:
		return nil, &RateLimitedError{RetryAfter: parseRetryAfter(resp)}
	default:
		return nil, fmt.Errorf("retailer search returned status %d", resp.StatusCode)
	}

	var body retailerSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode retailer search response: %w", err)
	}

	products := make([]RetailerProduct, 0, len(body.Products))
	for _, p := range body.Products {
		products = append(products, RetailerProduct{
			SKU:      p.ID,
			Name:     p.Title,
			Brand:    p.Brand,
			Barcode:  p.EAN,
			Price:    p.Price,
			Currency: "EUR",
		})
	}
	return products, nil
}
