package series

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const rawCacheKey = "series:raw"

// ErrEmptySeries is returned when the source text yields no data rows.
var ErrEmptySeries = errors.New("series source has no data rows")

// Service owns the fetched CSV text for the hosting application. Parsing is
// redone on every Load so callers never share a mutable series.
type Service struct {
	source interfaces.SeriesSource
	cache  *gocache.Cache
	logger *common.Logger
}

// NewService creates a series service that caches raw text for ttl.
func NewService(source interfaces.SeriesSource, ttl time.Duration, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		source: source,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Load returns the current series. Any fetch or parse failure yields
// FallbackSeries; the error is logged and not returned.
func (s *Service) Load(ctx context.Context) models.PortfolioSeries {
	text, err := s.raw(ctx)
	if err == nil {
		series := ParseSeries(text)
		if series.Len() > 0 {
			series.Source = s.source.Name()
			return series
		}
		err = ErrEmptySeries
	}

	s.logger.Warn().
		Err(err).
		Str("source", s.source.Name()).
		Msg("Series load failed, using fallback")
	return FallbackSeries()
}

// Refresh fetches the source once and replaces the cached text only when
// the new text has data rows. On failure the previous text stays cached.
func (s *Service) Refresh(ctx context.Context) error {
	text, err := s.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", s.source.Name(), err)
	}
	if ParseSeries(text).Len() == 0 {
		return ErrEmptySeries
	}

	s.cache.SetDefault(rawCacheKey, text)
	s.logger.Debug().
		Str("source", s.source.Name()).
		Int("bytes", len(text)).
		Msg("Series source refreshed")
	return nil
}

func (s *Service) raw(ctx context.Context) (string, error) {
	if v, ok := s.cache.Get(rawCacheKey); ok {
		return v.(string), nil
	}

	text, err := s.source.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", s.source.Name(), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptySeries
	}

	s.cache.SetDefault(rawCacheKey, text)
	s.logger.Debug().
		Str("source", s.source.Name()).
		Int("bytes", len(text)).
		Msg("Series source fetched")
	return text, nil
}
