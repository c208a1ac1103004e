package schema

import (
	"fmt"
	"math"
	"strings"
)

// MetricSet maps metric keys to non-negative values. A missing key means the
// metric could not be obtained; there is no null value.
type MetricSet map[MetricKey]float64

// NewMetricSet returns an empty MetricSet.
func NewMetricSet() MetricSet {
	return make(MetricSet)
}

// Set stores v under key. Negative, NaN and infinite values are dropped and
// Set reports false.
func (m MetricSet) Set(key MetricKey, v float64) bool {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	m[key] = v
	return true
}

// Get returns the value for key and whether it is present.
func (m MetricSet) Get(key MetricKey) (float64, bool) {
	v, ok := m[key]
	return v, ok
}

// Has reports whether key is present.
func (m MetricSet) Has(key MetricKey) bool {
	_, ok := m[key]
	return ok
}

// Merge copies every valid value of other into m, overwriting existing keys.
func (m MetricSet) Merge(other MetricSet) {
	for k, v := range other {
		m.Set(k, v)
	}
}

// Clone returns an independent copy.
func (m MetricSet) Clone() MetricSet {
	out := make(MetricSet, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the present keys in AllMetricKeys order.
func (m MetricSet) Keys() []MetricKey {
	keys := make([]MetricKey, 0, len(m))
	for _, k := range AllMetricKeys {
		if m.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Missing returns the keys of want that are absent from m.
func (m MetricSet) Missing(want ...MetricKey) []MetricKey {
	var missing []MetricKey
	for _, k := range want {
		if !m.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// ParseMetricKey validates a metric name from configuration.
func ParseMetricKey(name string) (MetricKey, error) {
	key := MetricKey(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range AllMetricKeys {
		if k == key {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", name)
}

// JoinMetricKeys renders keys as a comma-separated list.
func JoinMetricKeys(keys []MetricKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
