//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Sternrassler/vnstock-cache/internal/api"
	"github.com/Sternrassler/vnstock-cache/internal/testutil"
	"github.com/Sternrassler/vnstock-cache/pkg/cache"
	"github.com/Sternrassler/vnstock-cache/pkg/provider"
	"github.com/Sternrassler/vnstock-cache/pkg/ratelimit"
	"github.com/Sternrassler/vnstock-cache/pkg/stock"
)

const graphqlPath = "/data-mt/graphql"

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

type stack struct {
	redis    *redis.Client
	upstream *testutil.MockUpstream
	api      *httptest.Server
}

// newStack wires real Redis, real provider clients against the mock upstream
// and the HTTP API.
func newStack(t *testing.T, throttleLimit int) *stack {
	t.Helper()

	redisClient, cleanup := setupRedis(t)
	t.Cleanup(cleanup)

	upstream := testutil.NewMockUpstream()
	t.Cleanup(upstream.Close)

	cfg := func(base string) provider.Config {
		return provider.Config{BaseURL: base, Timeout: 5 * time.Second}
	}
	vci := provider.NewVCIClient(cfg(upstream.URL() + "/api"))
	directory := provider.NewDirectoryClient(cfg(upstream.URL()+graphqlPath), cfg(upstream.URL()+"/api"))
	t.Cleanup(func() {
		vci.Close()
		directory.Close()
	})

	store := cache.NewManager(redisClient)
	svc, err := stock.NewService(store, vci, directory, nil, stock.WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	throttle := ratelimit.NewThrottle(redisClient, throttleLimit, time.Minute, zerolog.Nop())
	server := api.NewServer(svc, throttle, store, "api", zerolog.Nop())

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return &stack{redis: redisClient, upstream: upstream, api: ts}
}

func (s *stack) call(t *testing.T, method, path string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, s.api.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("%s %s: decode body: %v", method, path, err)
	}
	return resp, body
}

// TestPriceBoardFlow tests Cache Miss → Upstream → Cache Hit → Invalidate → Cache Miss.
func TestPriceBoardFlow(t *testing.T) {
	s := newStack(t, 100)
	s.upstream.SetResponse("/api/price/symbols/getList", testutil.NewJSONResponse(
		`[{"symbol":"VCB","price":91000,"change":500,"percentChange":0.55}]`))

	ctx := context.Background()
	key := cache.PricesKey([]string{"VCB"}).String()

	t.Log("Request 1: cache miss")
	resp, body := s.call(t, http.MethodGet, "/api/stock/prices?symbols=vcb")
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("Request 1 = %d %v", resp.StatusCode, body)
	}
	if n := s.upstream.RequestCount("/api/price/symbols/getList"); n != 1 {
		t.Errorf("After request 1: upstream requests = %d, want 1", n)
	}

	ttl, err := s.redis.TTL(ctx, key).Result()
	if err != nil {
		t.Fatal(err)
	}
	if ttl <= 0 || ttl > cache.TTL(cache.OpPrices) {
		t.Errorf("cache TTL = %v, want (0, %v]", ttl, cache.TTL(cache.OpPrices))
	}

	t.Log("Request 2: cache hit")
	if resp, _ := s.call(t, http.MethodGet, "/api/stock/prices?symbols=VCB"); resp.StatusCode != http.StatusOK {
		t.Fatalf("Request 2 status = %d", resp.StatusCode)
	}
	if n := s.upstream.RequestCount("/api/price/symbols/getList"); n != 1 {
		t.Errorf("After request 2: upstream requests = %d, want 1", n)
	}

	t.Log("Invalidate")
	_, result := s.call(t, http.MethodDelete, "/api/stock/cache/prices?symbols=VCB")
	if result["success"] != true {
		t.Fatalf("clear result = %v", result)
	}
	if exists, _ := s.redis.Exists(ctx, key).Result(); exists != 0 {
		t.Error("price entry should be deleted")
	}

	t.Log("Request 3: cache miss after invalidation")
	s.call(t, http.MethodGet, "/api/stock/prices?symbols=VCB")
	if n := s.upstream.RequestCount("/api/price/symbols/getList"); n != 2 {
		t.Errorf("After request 3: upstream requests = %d, want 2", n)
	}
}

// TestIndustriesFlow tests grouping through the GraphQL directory and the
// empty fallback when the directory fails.
func TestIndustriesFlow(t *testing.T) {
	s := newStack(t, 100)
	s.upstream.SetResponse(graphqlPath, testutil.NewJSONResponse(`{"data":{"CompaniesListingInfo":[
		{"ticker":"VCB","organName":"Vietcombank","enOrganName":"Vietcombank","icbName4":"Banks","enIcbName4":"Banks","comTypeCode":"NH","__typename":"CompaniesListingInfo"},
		{"ticker":"BID","organName":"BIDV","enOrganName":"BIDV","icbName4":"Banks","enIcbName4":"Banks","comTypeCode":"NH","__typename":"CompaniesListingInfo"},
		{"ticker":"FPT","organName":"FPT Corp","enOrganName":"FPT Corp","icbName4":"Software","enIcbName4":"Software","comTypeCode":"CT","__typename":"CompaniesListingInfo"}
	]}}`))

	resp, body := s.call(t, http.MethodGet, "/api/stock/industries")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	groups, ok := body["data"].([]any)
	if !ok || len(groups) != 2 {
		t.Fatalf("groups = %v, want 2", body["data"])
	}

	// Served from Redis even once the directory fails
	s.upstream.SetResponse(graphqlPath, testutil.NewServerErrorResponse())
	_, body = s.call(t, http.MethodGet, "/api/stock/industries")
	if groups, _ := body["data"].([]any); len(groups) != 2 {
		t.Errorf("cached groups = %v, want 2", body["data"])
	}

	s.call(t, http.MethodDelete, "/api/stock/cache/industries")
	_, body = s.call(t, http.MethodGet, "/api/stock/industries")
	if groups, _ := body["data"].([]any); groups == nil || len(groups) != 0 {
		t.Errorf("fallback groups = %v, want []", body["data"])
	}
}

// TestThrottleFlow tests the shared per-client budget in front of the API.
func TestThrottleFlow(t *testing.T) {
	s := newStack(t, 3)
	s.upstream.SetResponse("/api/price/symbols/getAll", testutil.NewJSONResponse(`[{"symbol":"VCB"}]`))

	for i := 1; i <= 3; i++ {
		if resp, _ := s.call(t, http.MethodGet, "/api/stock/symbols"); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, resp.StatusCode)
		}
	}

	resp, body := s.call(t, http.MethodGet, "/api/stock/symbols")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if body["statusCode"] != float64(http.StatusTooManyRequests) {
		t.Errorf("envelope = %v", body)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}
