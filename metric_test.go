package polyfit

import (
	"errors"
	"math"
	"testing"
)

func TestMetric_Compare(t *testing.T) {
	s := mustShape(t, 2, 1, 1)
	a, _ := NewBufferFrom(s, []float64{0, 0})
	b, _ := NewBufferFrom(s, []float64{1, 0.5})

	tests := []struct {
		m    Metric
		want float64
	}{
		{MetricMSE, 0.625},
		{MetricMAE, 0.75},
		{MetricPSNR, -10 * math.Log10(0.625)},
	}
	for _, tt := range tests {
		t.Run(tt.m.String(), func(t *testing.T) {
			ab, err := tt.m.Compare(a, b)
			if err != nil {
				t.Fatal(err)
			}
			ba, _ := tt.m.Compare(b, a)
			if ab != ba {
				t.Errorf("not symmetric: %v vs %v", ab, ba)
			}
			if math.Abs(ab-tt.want) > 1e-12 {
				t.Errorf("Compare = %v, want %v", ab, tt.want)
			}
		})
	}
}

func TestMetric_Identity(t *testing.T) {
	x := gradientBuffer(t, mustShape(t, 6, 5, 4))
	for _, m := range []Metric{MetricMSE, MetricMAE} {
		if got, _ := m.Compare(x, x.Clone()); got != 0 {
			t.Errorf("%v(x, x) = %v, want 0", m, got)
		}
	}
	if got, _ := MetricPSNR.Compare(x, x); !math.IsInf(got, 1) {
		t.Errorf("psnr(x, x) = %v, want +Inf", got)
	}
}

func TestMetric_ShapeMismatch(t *testing.T) {
	a := mustBuffer(t, mustShape(t, 2, 2, 1), Pixel{})
	b := mustBuffer(t, mustShape(t, 2, 2, 3), Pixel{})
	if _, err := MetricMSE.Compare(a, b); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("error = %v, want ErrShapeMismatch", err)
	}
}

func TestMetric_Better(t *testing.T) {
	if !MetricMSE.Better(0.1, 0.2) || MetricMSE.Better(0.2, 0.2) {
		t.Error("mse orientation wrong")
	}
	if !MetricPSNR.Better(30, 20) || MetricPSNR.Better(20, 30) {
		t.Error("psnr orientation wrong")
	}
}

func TestParseMetric(t *testing.T) {
	for _, m := range []Metric{MetricMSE, MetricMAE, MetricPSNR} {
		got, err := ParseMetric(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMetric(%q) = %v, %v", m.String(), got, err)
		}
		text, _ := m.MarshalText()
		var back Metric
		if err := back.UnmarshalText(text); err != nil || back != m {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, back, err)
		}
	}
	if _, err := ParseMetric("ssim"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
