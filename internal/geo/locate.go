package geo

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"safelink-service/internal/model"
)

const DefaultLocateTimeout = 5 * time.Second

// DefaultFallback is central New Delhi.
var DefaultFallback = model.Location{Lat: 28.6139, Lng: 77.2090}

var ErrNoPosition = errors.New("position unavailable")

// Source is a platform location service. Implementations should honour ctx;
// Locator bounds the wait regardless.
type Source interface {
	Position(ctx context.Context) (model.Location, error)
}

type SourceFunc func(ctx context.Context) (model.Location, error)

func (f SourceFunc) Position(ctx context.Context) (model.Location, error) {
	return f(ctx)
}

// ReportedSource serves a coordinate a client already measured.
type ReportedSource struct {
	Lat      float64
	Lng      float64
	Accuracy *float64
}

func (s ReportedSource) Position(context.Context) (model.Location, error) {
	if s.Lat < -90 || s.Lat > 90 || s.Lng < -180 || s.Lng > 180 {
		return model.Location{}, ErrNoPosition
	}
	return model.Location{
		Lat:       s.Lat,
		Lng:       s.Lng,
		Accuracy:  s.Accuracy,
		Timestamp: time.Now(),
	}, nil
}

type Locator struct {
	timeout  time.Duration
	fallback model.Location
	log      zerolog.Logger
}

func NewLocator(timeout time.Duration, fallback model.Location, log zerolog.Logger) *Locator {
	if timeout <= 0 {
		timeout = DefaultLocateTimeout
	}
	return &Locator{timeout: timeout, fallback: fallback, log: log}
}

// Acquire always resolves: any failure, timeout or missing source yields the
// fallback coordinate stamped with the current time and no accuracy.
func (l *Locator) Acquire(ctx context.Context, src Source) model.Location {
	if src == nil {
		return l.fallbackNow()
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	type result struct {
		loc model.Location
		err error
	}
	ch := make(chan result, 1)
	go func() {
		loc, err := src.Position(ctx)
		ch <- result{loc: loc, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			l.log.Warn().Err(res.err).Msg("location lookup failed, using fallback")
			return l.fallbackNow()
		}
		if res.loc.Timestamp.IsZero() {
			res.loc.Timestamp = time.Now()
		}
		return res.loc
	case <-ctx.Done():
		l.log.Warn().Err(ctx.Err()).Msg("location lookup timed out, using fallback")
		return l.fallbackNow()
	}
}

func (l *Locator) fallbackNow() model.Location {
	return model.Location{
		Lat:       l.fallback.Lat,
		Lng:       l.fallback.Lng,
		Timestamp: time.Now(),
	}
}
