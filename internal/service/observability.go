package service

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// slogUseCaseObserver writes one service_use_case record per call. Fields are
// logged in key order. Calls the engine refused log at warn level and
// failures at error level.
type slogUseCaseObserver struct {
	logger *slog.Logger
}

// NewSlogUseCaseObserver reports events through logger. A nil logger yields
// a no-op observer.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &slogUseCaseObserver{logger: logger}
}

func (o *slogUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	level := slog.LevelInfo
	switch {
	case event.Err != nil:
		level = slog.LevelError
	case event.Fields["applied"] == false:
		level = slog.LevelWarn
	}

	attrs := make([]slog.Attr, 0, 4+len(event.Fields))
	attrs = append(attrs,
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success),
	)
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}
	o.logger.LogAttrs(ctx, level, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
