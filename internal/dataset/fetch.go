package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"energy-dashboard-go/internal/logger"
	"energy-dashboard-go/internal/types"
)

// FetchOptions tunes Fetch. Zero values fall back to defaults.
type FetchOptions struct {
	Client         *http.Client
	RequestTimeout time.Duration
	MaxElapsedTime time.Duration
}

const (
	defaultRequestTimeout = 12 * time.Second
	defaultMaxElapsed     = 30 * time.Second
)

// Fetch downloads and decodes the dashboard document at url. Transport
// errors and 5xx responses are retried with exponential backoff; 4xx
// responses and malformed documents fail immediately.
func Fetch(ctx context.Context, url string, opts FetchOptions) (*types.Dataset, error) {
	log := logger.New().WithField("component", "dataset.fetch").WithField("url", url)

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	reqTimeout := opts.RequestTimeout
	if reqTimeout <= 0 {
		reqTimeout = defaultRequestTimeout
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = opts.MaxElapsedTime
	if bo.MaxElapsedTime <= 0 {
		bo.MaxElapsedTime = defaultMaxElapsed
	}

	var (
		ds      *types.Dataset
		lastErr error
		attempt int
	)
	operation := func() error {
		attempt++
		reqCtx, cancel := context.WithTimeout(ctx, reqTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			log.WithError(err).WithField("attempt", attempt).Warn("fetch failed")
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			lastErr = fmt.Errorf("server error: %s: %s", resp.Status, body)
			log.WithField("attempt", attempt).WithField("status", resp.StatusCode).Warn("server error, retrying")
			return lastErr
		}
		if resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("unexpected status: %s", resp.Status)
			return backoff.Permanent(lastErr)
		}

		decoded, err := Decode(resp.Body)
		if err != nil {
			lastErr = err
			if errors.Is(err, types.ErrMalformedDataset) {
				return backoff.Permanent(err)
			}
			return err
		}
		ds = decoded
		lastErr = nil
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		log.WithError(lastErr).Error("fetch gave up")
		return nil, fmt.Errorf("fetch dataset: %w", lastErr)
	}
	log.WithField("attempts", attempt).WithField("years", len(ds.Regional)).Info("dataset fetched")
	return ds, nil
}
