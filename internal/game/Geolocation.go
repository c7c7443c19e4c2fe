package game

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	ErrGeoTimeout          = errors.New("geolocation timed out")
	ErrGeoPermissionDenied = errors.New("geolocation permission denied")
	ErrGeoUnavailable      = errors.New("geolocation unavailable")
)

type GeoErrorKind int

const (
	GeoErrorOther GeoErrorKind = iota
	GeoErrorTimeout
	GeoErrorPermissionDenied
)

func ClassifyGeoError(err error) GeoErrorKind {
	switch {
	case errors.Is(err, ErrGeoTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, os.ErrDeadlineExceeded):
		return GeoErrorTimeout
	case errors.Is(err, ErrGeoPermissionDenied), errors.Is(err, fs.ErrPermission):
		return GeoErrorPermissionDenied
	}
	return GeoErrorOther
}

// LogGeoError reports a position failure. Game state is never affected.
func LogGeoError(err error) {
	switch ClassifyGeoError(err) {
	case GeoErrorTimeout:
		log.Warn("Geolocation timeout, check that the GPS feed is still writing", "error", err)
	case GeoErrorPermissionDenied:
		log.Warn("Geolocation permission denied, fix the GPS feed permissions and restart", "error", err)
	default:
		log.Warn("Unexpected geolocation error", "error", err)
	}
}

type GeoPosition struct {
	Lat, Lng float64
}

// GeoTracker turns successive real-world fixes into single grid steps.
type GeoTracker struct {
	tileDegrees float64
	throttle    time.Duration

	lastUpdate time.Time
	reference  *GeoPosition
}

func NewGeoTracker(tileDegrees float64, throttle time.Duration) *GeoTracker {
	return &GeoTracker{tileDegrees: tileDegrees, throttle: throttle}
}

// Observe returns the step to apply for pos, if any. Fixes arriving within the
// throttle window are dropped, the first fix only locks the reference point,
// and movement under half a cell is treated as noise. The reference only
// advances once a step has been taken, so slow drift still adds up.
func (t *GeoTracker) Observe(pos GeoPosition, now time.Time) (MoveCommand, bool) {
	if !finite(pos.Lat) || !finite(pos.Lng) {
		log.Warn("Ignoring non-finite position", "lat", pos.Lat, "lng", pos.Lng)
		return MoveCommand{}, false
	}
	if !t.lastUpdate.IsZero() && now.Sub(t.lastUpdate) < t.throttle {
		return MoveCommand{}, false
	}
	t.lastUpdate = now

	if t.reference == nil {
		log.Info("First position locked", "lat", pos.Lat, "lng", pos.Lng)
		t.reference = &pos
		return MoveCommand{}, false
	}

	dx := int(math.Round((pos.Lng - t.reference.Lng) / t.tileDegrees))
	dy := int(math.Round((pos.Lat - t.reference.Lat) / t.tileDegrees))
	if dx == 0 && dy == 0 {
		return MoveCommand{}, false
	}

	step := MoveCommand{Dx: sign(dx), Dy: sign(dy)}
	log.Debug("Real-world move detected", "step_x", step.Dx, "step_y", step.Dy)
	t.reference = &pos
	return step, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseGeoLine reads a "lat,lng" fix.
func ParseGeoLine(line string) (GeoPosition, error) {
	latStr, lngStr, ok := strings.Cut(line, ",")
	if !ok {
		return GeoPosition{}, fmt.Errorf("malformed fix %q: expected lat,lng", line)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return GeoPosition{}, fmt.Errorf("malformed latitude in %q: %w", line, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return GeoPosition{}, fmt.Errorf("malformed longitude in %q: %w", line, err)
	}
	if !finite(lat) || !finite(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return GeoPosition{}, fmt.Errorf("fix %q out of range", line)
	}
	return GeoPosition{Lat: lat, Lng: lng}, nil
}

// GeoFeed watches a stream of "lat,lng" lines, one fix per line. Blank lines
// and lines starting with # are skipped.
type GeoFeed struct {
	positions chan GeoPosition
	errs      chan error
	done      chan struct{}
	timeout   time.Duration
	closer    io.Closer
	closeOnce sync.Once
}

func OpenGeoFeed(path string, timeout time.Duration) (*GeoFeed, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrGeoPermissionDenied, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrGeoUnavailable, err)
	}
	return NewGeoFeed(file, timeout), nil
}

func NewGeoFeed(r io.Reader, timeout time.Duration) *GeoFeed {
	feed := &GeoFeed{
		positions: make(chan GeoPosition),
		errs:      make(chan error),
		done:      make(chan struct{}),
		timeout:   timeout,
	}
	if closer, ok := r.(io.Closer); ok {
		feed.closer = closer
	}
	go feed.scan(r)
	return feed
}

func (f *GeoFeed) scan(r io.Reader) {
	defer close(f.positions)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pos, err := ParseGeoLine(line)
		if err != nil {
			if !f.emitErr(err) {
				return
			}
			continue
		}
		select {
		case f.positions <- pos:
		case <-f.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		f.emitErr(fmt.Errorf("%w: %w", ErrGeoUnavailable, err))
	}
}

func (f *GeoFeed) emitErr(err error) bool {
	select {
	case f.errs <- err:
		return true
	case <-f.done:
		return false
	}
}

// Next blocks until the next fix, the feed ends, or the timeout passes.
func (f *GeoFeed) Next() (GeoPosition, error) {
	timer := time.NewTimer(f.timeout)
	defer timer.Stop()

	select {
	case pos, ok := <-f.positions:
		if !ok {
			return GeoPosition{}, fmt.Errorf("%w: feed closed", ErrGeoUnavailable)
		}
		return pos, nil
	case err := <-f.errs:
		return GeoPosition{}, err
	case <-timer.C:
		return GeoPosition{}, ErrGeoTimeout
	}
}

func (f *GeoFeed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		if f.closer != nil {
			err = f.closer.Close()
		}
	})
	return err
}
