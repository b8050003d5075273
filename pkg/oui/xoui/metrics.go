package xoui

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/omeyang/xoui/pkg/oui/xoui"

// 指标名
const (
	metricLookups        = "xoui.lookups"
	metricGenerations    = "xoui.generations"
	metricUpdates        = "xoui.updates"
	metricUpdateDuration = "xoui.update.duration"
	metricRecords        = "xoui.registry.records"
)

// 属性取值
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
	resultOK    = "ok"
	modeRandom  = "random"
	modeVendor  = "vendor"
	modeCountry = "country"
	sourceNone  = "none"
)

type metrics struct {
	lookups     metric.Int64Counter
	generations metric.Int64Counter
	updates     metric.Int64Counter
	duration    metric.Float64Histogram
	records     metric.Int64Gauge
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	lookups, err1 := meter.Int64Counter(metricLookups,
		metric.WithDescription("vendor lookups by result"),
		metric.WithUnit("1"))
	generations, err2 := meter.Int64Counter(metricGenerations,
		metric.WithDescription("generated addresses by mode and result"),
		metric.WithUnit("1"))
	updates, err3 := meter.Int64Counter(metricUpdates,
		metric.WithDescription("registry rebuilds by source and result"),
		metric.WithUnit("1"))
	duration, err4 := meter.Float64Histogram(metricUpdateDuration,
		metric.WithDescription("registry rebuild duration"),
		metric.WithUnit("s"))
	records, err5 := meter.Int64Gauge(metricRecords,
		metric.WithDescription("records in the prefix table"),
		metric.WithUnit("1"))
	if err := errors.Join(err1, err2, err3, err4, err5); err != nil {
		return nil, err
	}
	return &metrics{
		lookups:     lookups,
		generations: generations,
		updates:     updates,
		duration:    duration,
		records:     records,
	}, nil
}

func (m *metrics) lookup(ctx context.Context, result string) {
	m.lookups.Add(context.WithoutCancel(ctx), 1,
		metric.WithAttributes(attribute.String("result", result)))
}

func (m *metrics) generate(ctx context.Context, mode, result string) {
	m.generations.Add(context.WithoutCancel(ctx), 1,
		metric.WithAttributes(attribute.String("mode", mode), attribute.String("result", result)))
}

func (m *metrics) update(ctx context.Context, source, result string, elapsed time.Duration, records int) {
	ctx = context.WithoutCancel(ctx)
	attrs := metric.WithAttributes(attribute.String("source", source), attribute.String("result", result))
	m.updates.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if result == resultOK {
		m.records.Record(ctx, int64(records))
	}
}
