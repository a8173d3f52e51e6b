package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrProductNotFound is returned when the lookup service has no entry for a barcode.
var ErrProductNotFound = errors.New("no product found for barcode")

// RateLimitedError reports an upstream 429 together with the advertised
// back-off. It is surfaced to the caller; there is no retry.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("upstream rate limit exceeded, retry after %s", e.RetryAfter)
}

// BarcodeProduct is the normalized result of an external barcode lookup.
type BarcodeProduct struct {
	Barcode     string  `json:"barcode"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	PackageSize float64 `json:"package_size"`
	PackageUnit string  `json:"package_unit"`
	ImageURL    string  `json:"image_url"`
}

// barcodeAPIResponse mirrors the lookup service's JSON shape.
type barcodeAPIResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName  string  `json:"product_name"`
		Brands       string  `json:"brands"`
		Quantity     float64 `json:"product_quantity"`
		QuantityUnit string  `json:"product_quantity_unit"`
		ImageURL     string  `json:"image_url"`
	} `json:"product"`
}

const barcodeCacheTTL = 24 * time.Hour

// BarcodeService looks up products by EAN against an external lookup
// service, with a Redis cache in front of it.
type BarcodeService struct {
	client  *http.Client
	redis   *redis.Client
	baseURL string
}

func NewBarcodeService(redisClient *redis.Client, baseURL string) *BarcodeService {
	return &BarcodeService{
		client:  &http.Client{Timeout: 10 * time.Second},
		redis:   redisClient,
		baseURL: baseURL,
	}
}

// Lookup resolves a barcode, serving from cache when possible. A cached
// miss is also cached so repeated scans of unknown barcodes stay local.
func (s *BarcodeService) Lookup(ctx context.Context, barcode string) (*BarcodeProduct, error) {
	cacheKey := "barcode:" + barcode

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			if cached == "" {
				return nil, ErrProductNotFound
			}
			var product BarcodeProduct
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
		}
	}

	product, err := s.fetch(ctx, barcode)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) && s.redis != nil {
			s.redis.Set(ctx, cacheKey, "", barcodeCacheTTL)
		}
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			s.redis.Set(ctx, cacheKey, data, barcodeCacheTTL)
		}
	}
	return product, nil
}

func (s *BarcodeService) fetch(ctx context.Context, barcode string) (*BarcodeProduct, error) {
	url := fmt.Sprintf("%s/api/v2/product/%s.json", s.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("barcode lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through
	case http.StatusNotFound:
		return nil, ErrProductNotFound
	case http.StatusTooManyRequests:
		return nil, &RateLimitedError{RetryAfter: parseRetryAfter(resp)}
	default:
		return nil, fmt.Errorf("barcode lookup returned status %d", resp.StatusCode)
	}

	var body barcodeAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode barcode lookup response: %w", err)
	}
	if body.Status == 0 || body.Product.ProductName == "" {
		return nil, ErrProductNotFound
	}

	return &BarcodeProduct{
		Barcode:     barcode,
		Name:        body.Product.ProductName,
		Brand:       body.Product.Brands,
		PackageSize: body.Product.Quantity,
		PackageUnit: body.Product.QuantityUnit,
		ImageURL:    body.Product.ImageURL,
	}, nil
}

func parseRetryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return time.Minute
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return time.Minute
}
