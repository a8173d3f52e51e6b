package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricoach/nutricoach-backend/internal/service"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestBarcodeLookup(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/api/v2/product/8712345678906.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":1,"product":{"product_name":"Rolled Oats","brands":"Grainco","product_quantity":500,"product_quantity_unit":"g","image_url":"https://img.example/oats.jpg"}}`))
	}))
	defer server.Close()

	svc := service.NewBarcodeService(newTestRedis(t), server.URL)

	product, err := svc.Lookup(context.Background(), "8712345678906")
	require.NoError(t, err)
	assert.Equal(t, "Rolled Oats", product.Name)
	assert.Equal(t, "Grainco", product.Brand)
	assert.Equal(t, 500.0, product.PackageSize)
	assert.Equal(t, "g", product.PackageUnit)

	// Second lookup is served from cache.
	_, err = svc.Lookup(context.Background(), "8712345678906")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestBarcodeLookupNotFoundIsCached(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := service.NewBarcodeService(newTestRedis(t), server.URL)

	_, err := svc.Lookup(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	// The miss is cached; no second upstream call.
	_, err = svc.Lookup(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, service.ErrProductNotFound)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestBarcodeLookupRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := service.NewBarcodeService(nil, server.URL)

	_, err := svc.Lookup(context.Background(), "8712345678906")
	var rateErr *service.RateLimitedError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, 2*time.Minute, rateErr.RetryAfter)
}

func TestBarcodeLookupWithoutRedis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":1,"product":{"product_name":"Milk","brands":"Dairyco"}}`))
	}))
	defer server.Close()

	svc := service.NewBarcodeService(nil, server.URL)

	product, err := svc.Lookup(context.Background(), "8712345678913")
	require.NoError(t, err)
	assert.Equal(t, "Milk", product.Name)
}

func TestBarcodeLookupEmptyProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":0,"product":{}}`))
	}))
	defer server.Close()

	svc := service.NewBarcodeService(nil, server.URL)

	_, err := svc.Lookup(context.Background(), "8712345678913")
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}
