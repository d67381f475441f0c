package plant

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/juiceplant/component"
	"github.com/kbukum/juiceplant/errors"
	"github.com/kbukum/juiceplant/logger"
	"github.com/kbukum/juiceplant/observability"
)

// lockedBuffer is a log sink shared by both worker goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quietLogger() *logger.Logger { return logger.NewNop() }

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func mustNew(t *testing.T, label string, opts ...Option) *Plant {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	p, err := New(label, opts...)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", label, err)
	}
	return p
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(""); !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected validation error for empty label, got %v", err)
	}
	if _, err := New("Plant[0]", WithUnitLimit(-1)); !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected validation error for negative limit, got %v", err)
	}
}

func TestPlant_TenOrangesMakeThreeBottles(t *testing.T) {
	p := mustNew(t, "Plant[0]", WithUnitLimit(10))
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := p.WaitToStop(waitCtx(t)); err != nil {
		t.Fatalf("WaitToStop failed: %v", err)
	}

	if got := p.ProcessedOranges(); got != 10 {
		t.Fatalf("expected 10 processed, got %d", got)
	}
	if got := p.ProvidedOranges(); got != 10 {
		t.Errorf("expected 10 provided, got %d", got)
	}
	if got := p.Bottles(); got != 3 {
		t.Errorf("expected 3 bottles, got %d", got)
	}
	if got := p.Waste(); got != 1 {
		t.Errorf("expected 1 wasted, got %d", got)
	}
}

func TestPlant_StopDrainsInFlightOranges(t *testing.T) {
	p := mustNew(t, "Plant[0]")
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	p.Stop()
	if p.Running() {
		t.Error("expected Running to be false right after Stop")
	}
	if err := p.WaitToStop(waitCtx(t)); err != nil {
		t.Fatalf("WaitToStop failed: %v", err)
	}

	first := p.Snapshot()
	if first.Provided == 0 {
		t.Fatal("expected some oranges to be provided")
	}
	if first.Provided != first.Processed {
		t.Errorf("expected orderly stop to lose nothing, got %d/%d", first.Provided, first.Processed)
	}
	if first.Bottles*OrangesPerBottle+first.Waste != first.Processed {
		t.Errorf("bottle arithmetic broken: %+v", first)
	}

	for range 3 {
		if again := p.Snapshot(); again != first {
			t.Fatalf("expected stable counters after stop, got %+v then %+v", first, again)
		}
	}

	select {
	case <-p.Done():
	default:
		t.Error("expected Done to be closed after WaitToStop")
	}
}

func TestPlant_StopBeforeStart(t *testing.T) {
	p := mustNew(t, "Plant[0]")
	p.Stop()
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := p.WaitToStop(waitCtx(t)); err != nil {
		t.Fatalf("WaitToStop failed: %v", err)
	}
	if p.ProvidedOranges() != 0 || p.ProcessedOranges() != 0 {
		t.Errorf("expected no work, got %+v", p.Snapshot())
	}
}

func TestPlant_WaitToStopBeforeStart(t *testing.T) {
	p := mustNew(t, "Plant[0]")
	if err := p.WaitToStop(context.Background()); !errors.HasCode(err, errors.ErrCodeNotStarted) {
		t.Errorf("expected NOT_STARTED, got %v", err)
	}
}

func TestPlant_StartTwice(t *testing.T) {
	p := mustNew(t, "Plant[0]", WithUnitLimit(1))
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := p.Start(context.Background()); !errors.HasCode(err, errors.ErrCodeAlreadyStarted) {
		t.Errorf("expected ALREADY_STARTED, got %v", err)
	}
	if err := p.WaitToStop(waitCtx(t)); err != nil {
		t.Fatalf("WaitToStop failed: %v", err)
	}
}

func TestPlant_WaitToStopCanceledIsReported(t *testing.T) {
	sink := &lockedBuffer{}
	log := logger.New(&logger.Config{Level: "debug", Format: "json", Writer: sink}, "test")

	p, err := New("Plant[7]", WithLogger(log))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = p.WaitToStop(ctx)
	if !errors.HasCode(err, errors.ErrCodeStopCanceled) {
		t.Fatalf("expected STOP_CANCELED, got %v", err)
	}
	if !strings.Contains(err.Error(), "Plant[7] stop malfunction") {
		t.Errorf("expected stop malfunction message, got %q", err.Error())
	}
	if !strings.Contains(sink.String(), "Plant[7] Worker[0] stop malfunction") {
		t.Errorf("expected worker identity in log, got %s", sink.String())
	}

	// the plant is unaffected and still shuts down cleanly
	p.Stop()
	if err := p.WaitToStop(waitCtx(t)); err != nil {
		t.Fatalf("WaitToStop after canceled wait failed: %v", err)
	}
	if p.ProvidedOranges() != p.ProcessedOranges() {
		t.Errorf("expected provided == processed, got %+v", p.Snapshot())
	}
}

func TestPlant_ContextAbort(t *testing.T) {
	p := mustNew(t, "Plant[0]")
	ctx, cancel := context.WithCancel(context.Background())
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	cancel()

	err := p.WaitToStop(waitCtx(t))
	if !errors.IsShutdown(err) {
		t.Fatalf("expected shutdown error after abort, got %v", err)
	}
	c := p.Snapshot()
	if c.Processed > c.Provided {
		t.Errorf("processed must never exceed provided, got %+v", c)
	}
	if h := p.Health(context.Background()); h.Status != component.StatusDegraded {
		t.Errorf("expected degraded health after abort, got %s", h.Status)
	}
}

func TestPlant_TwoPlantsAreIndependent(t *testing.T) {
	a := mustNew(t, "Plant[0]", WithUnitLimit(9))
	b := mustNew(t, "Plant[1]", WithUnitLimit(14))

	for _, p := range []*Plant{a, b} {
		if err := p.Start(context.Background()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
	}
	for _, p := range []*Plant{a, b} {
		if err := p.WaitToStop(waitCtx(t)); err != nil {
			t.Fatalf("WaitToStop failed: %v", err)
		}
	}

	total := a.Snapshot().Add(b.Snapshot())
	if total.Processed != 23 || total.Provided != 23 {
		t.Errorf("expected 23/23, got %d/%d", total.Provided, total.Processed)
	}
	if total.Bottles != a.Bottles()+b.Bottles() {
		t.Errorf("expected bottles %d, got %d", a.Bottles()+b.Bottles(), total.Bottles)
	}
	if total.Bottles != 7 || total.Waste != 2 {
		t.Errorf("expected 3+4 bottles and 0+2 waste, got %d and %d", total.Bottles, total.Waste)
	}
}

func TestPlant_ReportsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	p := mustNew(t, "Plant[0]", WithUnitLimit(7), WithMeter(mp.Meter("test")))
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := p.WaitToStop(waitCtx(t)); err != nil {
		t.Fatalf("WaitToStop failed: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := map[string]int64{
		observability.MetricOrangesProvided:  7,
		observability.MetricOrangesProcessed: 7,
		observability.MetricPlantsRunning:    0,
	}
	for name, v := range want {
		if got := plantSum(rm, name, "Plant[0]"); got != v {
			t.Errorf("%s: expected %d, got %d", name, v, got)
		}
	}
}

func TestPlant_RunSpanCarriesCounts(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	p := mustNew(t, "Plant[0]", WithUnitLimit(4), WithTracer(tp.Tracer("test")))
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := p.WaitToStop(waitCtx(t)); err != nil {
		t.Fatalf("WaitToStop failed: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != observability.SpanPlantRun {
		t.Fatalf("expected one %s span, got %v", observability.SpanPlantRun, spans)
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}
	if v := attrs[observability.AttrProcessed]; v.AsInt64() != 4 {
		t.Errorf("expected processed=4 on span, got %v", v.Emit())
	}
	if v := attrs[observability.AttrBottles]; v.AsInt64() != 1 {
		t.Errorf("expected bottles=1 on span, got %v", v.Emit())
	}
	if v := attrs[observability.AttrPlant]; v.AsString() != "Plant[0]" {
		t.Errorf("expected plant label on span, got %v", v.Emit())
	}
}

func TestPlant_Health(t *testing.T) {
	p := mustNew(t, "Plant[0]")
	if h := p.Health(context.Background()); h.Message != "idle" {
		t.Errorf("expected idle before start, got %+v", h)
	}
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := p.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy while running, got %+v", h)
	}
	p.Stop()
	if err := p.WaitToStop(waitCtx(t)); err != nil {
		t.Fatalf("WaitToStop failed: %v", err)
	}
	h := p.Health(context.Background())
	if h.Status != component.StatusStopped {
		t.Errorf("expected stopped, got %+v", h)
	}
	if !strings.Contains(h.Message, "provided/processed") {
		t.Errorf("expected counts in health message, got %q", h.Message)
	}
}

func TestAsComponent_StopDrains(t *testing.T) {
	p := mustNew(t, "Plant[3]")
	c := AsComponent(p)
	if c.Name() != "Plant[3]" {
		t.Errorf("expected component name Plant[3], got %q", c.Name())
	}

	r := component.NewRegistry()
	if err := r.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if p.Running() {
		t.Error("expected plant stopped")
	}
	if p.ProvidedOranges() != p.ProcessedOranges() {
		t.Errorf("expected drained plant, got %+v", p.Snapshot())
	}
	if d := c.Describe(); d.Type != "plant" {
		t.Errorf("expected plant description, got %+v", d)
	}
}

func plantSum(rm metricdata.ResourceMetrics, name, plant string) int64 {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				return -1
			}
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(observability.AttrPlant); ok && v.AsString() == plant {
					return dp.Value
				}
			}
		}
	}
	return -1
}
