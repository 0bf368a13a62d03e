// Package crawler fetches every website target through a bounded worker pool
// and extracts contact facts from each response. The batch contract is strict:
// exactly one RawFacts per input target, in input order, no matter how many
// fetches fail.
package crawler

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/profile-cli/internal/extract"
	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/normalize"
)

// Config controls crawl behavior.
type Config struct {
	Workers      int
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgents   []string
	HostRate     rate.Limit
	HostBurst    int
}

// DefaultUserAgents is the rotation pool used when none is configured.
// Rotation reduces uniform-fingerprint blocking; it is a courtesy measure,
// not a correctness requirement.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Edge/90.0.818.56",
}

// Progress receives completion counts as targets finish. Observability only;
// callers may pass nil.
type Progress func(done, total int)

// Crawler runs fetch+extract over a target list.
type Crawler struct {
	client    *http.Client
	extractor *extract.Extractor
	cfg       Config

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a Crawler. Zero config fields get defaults.
func New(cfg Config, extractor *extract.Extractor) *Crawler {
	if cfg.Workers <= 0 {
		cfg.Workers = 32
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 7 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 100 * 1024
	}
	if len(cfg.UserAgents) == 0 {
		cfg.UserAgents = DefaultUserAgents
	}
	if cfg.HostRate <= 0 {
		cfg.HostRate = 4
	}
	if cfg.HostBurst <= 0 {
		cfg.HostBurst = 2
	}
	return &Crawler{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.Timeout,
				}).DialContext,
				TLSHandshakeTimeout: cfg.Timeout,
				MaxIdleConnsPerHost: 2,
			},
		},
		extractor: extractor,
		cfg:       cfg,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Run fetches and extracts every target. len(result) == len(targets) always;
// failed targets carry their fetch status and otherwise-empty facts. Workers
// share nothing but the result slice, each writing only its own index.
func (c *Crawler) Run(ctx context.Context, targets []string, progress Progress) []model.RawFacts {
	results := make([]model.RawFacts, len(targets))
	var done atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for i, target := range targets {
		g.Go(func() error {
			results[i] = c.crawlOne(gCtx, target)

			n := int(done.Add(1))
			if progress != nil {
				progress(n, len(targets))
			}
			zap.L().Debug("crawler: target done",
				zap.String("domain", results[i].Domain),
				zap.String("status", string(results[i].Status)),
				zap.Int("done", n),
				zap.Int("total", len(targets)),
			)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// crawlOne tries each candidate URL for the target until one returns usable
// content. No retry of a failed candidate; the last failure determines the
// recorded status.
func (c *Crawler) crawlOne(ctx context.Context, target string) model.RawFacts {
	domain := normalize.Domain(target)
	facts := model.RawFacts{
		URL:    target,
		Domain: domain,
		Status: model.FetchHTTPError,
	}
	if domain == "" {
		facts.Error = "empty target"
		return facts
	}

	for attempt, candidate := range candidateURLs(target, domain) {
		if ctx.Err() != nil {
			facts.Status = model.FetchTimeout
			facts.Error = "crawl cancelled"
			return facts
		}

		body, status, err := c.fetch(ctx, candidate, attempt)
		if err != nil {
			facts.Status = status
			facts.Error = err.Error()
			continue
		}

		extracted := c.extractor.Extract(body, candidate)
		extracted.URL = target
		extracted.Domain = domain
		return extracted
	}
	return facts
}

// fetch performs one bounded GET. A candidate is never retried; the caller
// moves on to the next candidate URL. Empty bodies count as failures.
func (c *Crawler) fetch(ctx context.Context, candidate string, attempt int) ([]byte, model.FetchStatus, error) {
	if err := c.limiterFor(candidate).Wait(ctx); err != nil {
		return nil, model.FetchTimeout, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate, nil)
	if err != nil {
		return nil, model.FetchHTTPError, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgents[attempt%len(c.cfg.UserAgents)])

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyFetchError(err), err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, model.FetchHTTPError, errors.New("http status " + resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
	if err != nil {
		return nil, classifyFetchError(err), err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, model.FetchHTTPError, errors.New("empty body")
	}
	return body, model.FetchOK, nil
}

func (c *Crawler) limiterFor(candidate string) *rate.Limiter {
	host := normalize.Domain(candidate)
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[host]
	if !ok {
		lim = rate.NewLimiter(c.cfg.HostRate, c.cfg.HostBurst)
		c.limiters[host] = lim
	}
	return lim
}

// candidateURLs lists the fetch attempts for a target. An explicit URL is
// fetched as-is; a bare domain fans out to https before http, bare host
// before www.
func candidateURLs(target, domain string) []string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return []string{target}
	}
	return []string{
		"https://" + domain,
		"https://www." + domain,
		"http://" + domain,
		"http://www." + domain,
	}
}

// classifyFetchError maps transport errors onto the fetch status taxonomy.
func classifyFetchError(err error) model.FetchStatus {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return model.FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.FetchTimeout
	}
	return model.FetchHTTPError
}
