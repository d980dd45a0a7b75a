package polyfit

import (
	"fmt"
	"math"
)

// Metric selects how two buffers of equal shape are compared.
//
// The set is closed: metrics run over every sample of every step, so they are
// dispatched with a switch rather than through an interface. Each metric
// documents whether lower or higher scores mean closer images; Better hides
// the orientation from callers.
type Metric uint8

const (
	// MetricMSE is the mean over all samples of (a_i - b_i)^2.
	// Lower is better; identical buffers score 0.
	MetricMSE Metric = iota

	// MetricMAE is the mean over all samples of |a_i - b_i|.
	// Lower is better; identical buffers score 0.
	MetricMAE

	// MetricPSNR is the peak signal-to-noise ratio in decibels for a peak
	// value of 1. Higher is better; identical buffers score +Inf.
	MetricPSNR

	metricCount
)

var metricNames = [metricCount]string{
	MetricMSE:  "mse",
	MetricMAE:  "mae",
	MetricPSNR: "psnr",
}

// String returns the metric name.
func (m Metric) String() string {
	if m >= metricCount {
		return "unknown"
	}
	return metricNames[m]
}

// IsValid reports whether m is a known metric.
func (m Metric) IsValid() bool {
	return m < metricCount
}

// ParseMetric returns the metric with the given name.
func ParseMetric(name string) (Metric, error) {
	for i, n := range metricNames {
		if n == name {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("polyfit: unknown metric %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("polyfit: invalid metric %d", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	v, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// LowerIsBetter reports the orientation of the metric.
func (m Metric) LowerIsBetter() bool {
	return m != MetricPSNR
}

// Better reports whether candidate is strictly closer than reference.
func (m Metric) Better(candidate, reference float64) bool {
	if m.LowerIsBetter() {
		return candidate < reference
	}
	return candidate > reference
}

// Compare scores a against b. It fails with ErrShapeMismatch when the shapes
// differ. Every metric is symmetric in its arguments.
func (m Metric) Compare(a, b *Buffer) (float64, error) {
	if a.shape != b.shape {
		return 0, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, a.shape, b.shape)
	}

	switch m {
	case MetricMSE:
		return mse(a.data, b.data), nil
	case MetricMAE:
		return mae(a.data, b.data), nil
	case MetricPSNR:
		return psnr(mse(a.data, b.data)), nil
	default:
		return 0, fmt.Errorf("polyfit: invalid metric %d", m)
	}
}

func mse(a, b []float64) float64 {
	var sum float64
	for i, v := range a {
		d := v - b[i]
		sum += d * d
	}
	return sum / float64(len(a))
}

func mae(a, b []float64) float64 {
	var sum float64
	for i, v := range a {
		sum += math.Abs(v - b[i])
	}
	return sum / float64(len(a))
}

func psnr(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return -10 * math.Log10(mse)
}
