package polyfit

import "testing"

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.metric != MetricMSE || o.fillRule != FillEvenOdd || o.seeded || o.historyLimit != 0 {
		t.Errorf("defaultOptions = %+v", o)
	}
	if _, ok := o.acceptor.(Greedy); !ok {
		t.Errorf("default acceptor = %T, want Greedy", o.acceptor)
	}
}

func TestOptionsApply(t *testing.T) {
	o := defaultOptions()
	ann := NewAnnealing(1, 0.9)
	for _, opt := range []Option{
		WithMetric(MetricPSNR),
		WithAcceptor(ann),
		WithAcceptor(nil),
		WithFillRule(FillNonZero),
		WithSeed(42),
		WithWorkers(3),
		WithHistoryLimit(5),
		WithHistoryLimit(-1),
	} {
		opt(&o)
	}
	if o.metric != MetricPSNR || o.acceptor != Acceptor(ann) || o.fillRule != FillNonZero {
		t.Errorf("options = %+v", o)
	}
	if !o.seeded || o.seed != 42 || o.workers != 3 || o.historyLimit != 5 {
		t.Errorf("options = %+v", o)
	}
}

func TestEngine_FillRuleOption(t *testing.T) {
	e, err := New(mustBuffer(t, mustShape(t, 30, 20, 1), Pixel{1}), WithFillRule(FillNonZero))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if e.FillRule() != FillNonZero || e.Metric() != MetricMSE {
		t.Errorf("FillRule=%v Metric=%v", e.FillRule(), e.Metric())
	}
}
