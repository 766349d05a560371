package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProber() *Prober {
	return New(Config{RequestsPerSec: 1000}, zap.NewNop())
}

func TestCheckURLHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	healthy, err := newTestProber().CheckURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, healthy)
}

func TestCheckURLDeadPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	healthy, err := newTestProber().CheckURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, healthy)
}

func TestCheckURLFallsBackToGet(t *testing.T) {
	var gets int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		atomic.AddInt32(&gets, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	healthy, err := newTestProber().CheckURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, healthy)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gets))
}

func TestCheckURLUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	healthy, err := newTestProber().CheckURL(context.Background(), url)
	require.NoError(t, err)
	assert.False(t, healthy)
}

func TestCheckURLCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestProber().CheckURL(ctx, "http://localhost:1")
	assert.Error(t, err)
}

func TestCheckURLSendsUserAgent(t *testing.T) {
	var seen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := New(Config{RequestsPerSec: 1000, UserAgent: "catalog-test/0.1"}, zap.NewNop())
	_, err := p.CheckURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "catalog-test/0.1", seen.Load())
}

func TestExtractPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>
			<h1>Mechanical Keyboard</h1>
			<span class="price-tag">€49,90</span>
			<span class="price-tag">€59,90</span>
		</body></html>`))
	}))
	defer srv.Close()

	amount, currency, err := newTestProber().ExtractPrice(context.Background(), srv.URL, ".price-tag")
	require.NoError(t, err)
	assert.Equal(t, int64(4990), amount)
	assert.Equal(t, "EUR", currency)
}

func TestExtractPriceSelectorMatchesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer srv.Close()

	_, _, err := newTestProber().ExtractPrice(context.Background(), srv.URL, ".price-tag")
	assert.ErrorIs(t, err, ErrNoPrice)
}

func TestExtractPriceRequiresSelector(t *testing.T) {
	_, _, err := newTestProber().ExtractPrice(context.Background(), "http://example.com", "")
	assert.ErrorIs(t, err, ErrNoSelector)
}

func TestExtractPriceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, _, err := newTestProber().ExtractPrice(context.Background(), srv.URL, ".price-tag")
	assert.Error(t, err)
}
