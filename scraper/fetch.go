package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/turfline/turfpulse/pkg/config"
	"github.com/turfline/turfpulse/pkg/retry"
	"go.uber.org/zap"
)

// ErrEmptyDocument is returned when a fetch completes but yields no body.
var ErrEmptyDocument = errors.New("fetched document is empty")

// Fetcher retrieves a URL as a parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// CollyFetcher fetches documents through a colly collector with a bounded
// request timeout and exponential-backoff retries.
type CollyFetcher struct {
	collector *colly.Collector
	retryCfg  retry.RetryConfig
	logger    *zap.Logger
}

func NewCollyFetcher(cfg config.Config, logger *zap.Logger) *CollyFetcher {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
	)
	collector.SetRequestTimeout(cfg.FetchTimeout)
	// Revisit bookkeeping belongs to the crawl navigator, not the fetch layer.
	collector.AllowURLRevisit = true

	retryCfg := retry.DefaultRetryConfig()
	retryCfg.MaxAttempts = cfg.RetryAttempts
	retryCfg.InitialDelay = cfg.RetryDelay
	retryCfg.Logger = logger

	return &CollyFetcher{
		collector: collector,
		retryCfg:  retryCfg,
		logger:    logger,
	}
}

// Fetch retrieves pageURL and parses the response body. Transport errors and
// non-success statuses surface as errors after retries are exhausted.
func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var doc *goquery.Document

	err := retry.Retry(ctx, f.retryCfg, func() error {
		c := f.collector.Clone()

		var body []byte
		var fetchErr error
		c.OnResponse(func(r *colly.Response) {
			body = r.Body
		})
		c.OnError(func(_ *colly.Response, err error) {
			fetchErr = err
		})

		if err := c.Visit(pageURL); err != nil {
			return fmt.Errorf("visit %s: %w", pageURL, err)
		}
		c.Wait()

		if fetchErr != nil {
			return fmt.Errorf("fetch %s: %w", pageURL, fetchErr)
		}
		if len(body) == 0 {
			return ErrEmptyDocument
		}

		parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("parse %s: %w", pageURL, err)
		}
		doc = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Fetched document", zap.String("url", pageURL))
	return doc, nil
}
