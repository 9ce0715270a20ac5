package service

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// UseCaseEvent captures execution telemetry for one service use case.
type UseCaseEvent struct {
	Name      string
	CourseID  int64
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

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes use-case events to w as slog text records.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// NewSlogUseCaseObserver reports use-case events through an existing logger.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]slog.Attr, 0, 5+len(event.Fields))
	attrs = append(attrs,
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success),
	)
	if event.CourseID != 0 {
		attrs = append(attrs, slog.Int64("course_id", event.CourseID))
	}
	for k, v := range event.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	level := slog.LevelInfo
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		level = slog.LevelError
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

// span times one use case. Call done with the use case's final error,
// typically from a deferred closure over a named return.
type span struct {
	observer UseCaseObserver
	event    UseCaseEvent
}

func startSpan(observer UseCaseObserver, name string, courseID int64) *span {
	return &span{
		observer: observer,
		event: UseCaseEvent{
			Name:      name,
			CourseID:  courseID,
			StartedAt: time.Now().UTC(),
			Fields:    map[string]any{},
		},
	}
}

func (s *span) set(key string, value any) {
	s.event.Fields[key] = value
}

func (s *span) done(ctx context.Context, err error) {
	s.event.Duration = time.Since(s.event.StartedAt)
	s.event.Success = err == nil
	s.event.Err = err
	s.observer.ObserveUseCase(ctx, s.event)
}
