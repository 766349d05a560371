// Package probe checks affiliate destinations: whether a URL still
// answers, and what price the marketplace page currently shows. All
// outbound traffic runs through one politeness limiter so maintenance
// sweeps never hammer a retailer.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNoSelector is returned when a marketplace has no price selector
// configured.
var ErrNoSelector = errors.New("marketplace has no price selector")

// maxBodyBytes limits how much of a retailer page gets parsed.
const maxBodyBytes = 10 * 1024 * 1024

const (
	defaultTimeout   = 10 * time.Second
	defaultRPS       = 2
	defaultUserAgent = "DevDailyBot/1.0 (catalog maintenance)"
)

// Config tunes the prober. Zero values fall back to defaults.
type Config struct {
	RequestTimeout time.Duration
	RequestsPerSec int
	Burst          int
	UserAgent      string
}

// Prober performs the outbound checks for the maintenance jobs.
type Prober struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *zap.Logger
}

// New creates a prober with the given politeness settings.
func New(cfg Config, logger *zap.Logger) *Prober {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerSec
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &Prober{
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// CheckURL reports whether the destination still answers. It tries
// HEAD first; retailers that refuse HEAD get judged by one GET. A
// non-nil error means the check could not run (context cancelled),
// not that the link is dead.
func (p *Prober) CheckURL(ctx context.Context, rawURL string) (bool, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return false, err
	}

	healthy, headRejected := p.attempt(ctx, http.MethodHead, rawURL)
	if healthy {
		return true, nil
	}
	if headRejected {
		healthy, _ = p.attempt(ctx, http.MethodGet, rawURL)
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return healthy, nil
}

// attempt runs one request. headRejected is true when the status
// suggests the method, not the destination, was the problem.
func (p *Prober) attempt(ctx context.Context, method, rawURL string) (healthy, headRejected bool) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return false, false
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("probe request failed",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Error(err))
		return false, false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return true, false
	}

	switch resp.StatusCode {
	case http.StatusMethodNotAllowed, http.StatusNotImplemented, http.StatusForbidden:
		return false, method == http.MethodHead
	}
	return false, false
}

// ExtractPrice fetches the page and reads the price out of the
// marketplace's CSS selector. Returns minor units and a currency code.
func (p *Prober) ExtractPrice(ctx context.Context, rawURL, selector string) (int64, string, error) {
	if selector == "" {
		return 0, "", ErrNoSelector
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, "", fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, "", fmt.Errorf("parse %s: %w", rawURL, err)
	}

	return ParsePrice(doc.Find(selector).First().Text())
}
