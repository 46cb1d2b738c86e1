package folio

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
)

// CacheKeyer is implemented by providers that can name their configuration.
// Two providers with the same key must measure identically.
type CacheKeyer interface {
	CacheKey() string
}

// MeasureCache memoizes LayoutText results. Layout is a pure function of the
// run and the provider, so a hit returns exactly what LayoutText would.
// Providers that do not implement CacheKeyer are keyed by their dynamic type.
// The zero value is ready to use and safe for concurrent use.
type MeasureCache struct {
	mu      sync.Mutex
	entries map[string]Measurement
	hits    int
	misses  int
}

// NewMeasureCache returns an empty cache.
func NewMeasureCache() *MeasureCache {
	return &MeasureCache{entries: make(map[string]Measurement)}
}

// Layout returns the cached measurement for run, computing it on a miss.
// Failed layouts are not cached.
func (c *MeasureCache) Layout(run TextRun, p MeasurementProvider) (Measurement, error) {
	key := measureKey(run, p)

	c.mu.Lock()
	m, ok := c.entries[key]
	if ok {
		c.hits++
	}
	c.mu.Unlock()
	if ok {
		return cloneMeasurement(m), nil
	}

	m, err := LayoutText(run, p)
	if err != nil {
		return m, err
	}

	c.mu.Lock()
	c.misses++
	if c.entries == nil {
		c.entries = make(map[string]Measurement)
	}
	c.entries[key] = m
	c.mu.Unlock()
	return cloneMeasurement(m), nil
}

// Len returns the number of cached measurements.
func (c *MeasureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counters.
func (c *MeasureCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Reset drops every entry, e.g. after fonts were reloaded.
func (c *MeasureCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.hits, c.misses = 0, 0
}

// measureKey hashes the run together with the provider identity.
func measureKey(run TextRun, p MeasurementProvider) string {
	id := fmt.Sprintf("%T", p)
	if k, ok := p.(CacheKeyer); ok {
		id += ":" + k.CacheKey()
	}
	data, _ := json.Marshal([]any{id, run})
	sum := sha256.Sum256(data)
	return "layout:" + hex.EncodeToString(sum[:])
}

func cloneMeasurement(m Measurement) Measurement {
	if m.Lines != nil {
		m.Lines = append([]LineRecord(nil), m.Lines...)
	}
	return m
}
