package log

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/pkg/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StructuredLogger emits one record per operation step. Every record of an
// operation carries the operation name, its parameters and the request id.
//
//	tracer := log.NewDebugLogger("scheduler").WithContext(ctx).
//		Operation("schedule_inspection").
//		WithUUID("supervisor_id", id).
//		Build()
//	tracer.Step("capacity_checked").WithInt("active", 2).Log()
//	tracer.Success().Log()
type StructuredLogger struct {
	name  string
	level zapcore.Level
	ctx   context.Context
}

// NewDebugLogger returns a logger whose steps are logged at debug level.
// Successes are logged at info, errors at error.
func NewDebugLogger(name string) *StructuredLogger {
	return &StructuredLogger{name: name, level: zapcore.DebugLevel, ctx: context.Background()}
}

func NewInfoLogger(name string) *StructuredLogger {
	return &StructuredLogger{name: name, level: zapcore.InfoLevel, ctx: context.Background()}
}

func (l *StructuredLogger) WithContext(ctx context.Context) *StructuredLogger {
	return &StructuredLogger{name: l.name, level: l.level, ctx: ctx}
}

func (l *StructuredLogger) Operation(name string) *OperationBuilder {
	return &OperationBuilder{logger: l, operation: name}
}

type OperationBuilder struct {
	logger    *StructuredLogger
	operation string
	fields    []zap.Field
}

func (b *OperationBuilder) WithString(key, value string) *OperationBuilder {
	b.fields = append(b.fields, zap.String(key, value))
	return b
}

func (b *OperationBuilder) WithInt(key string, value int) *OperationBuilder {
	b.fields = append(b.fields, zap.Int(key, value))
	return b
}

func (b *OperationBuilder) WithBool(key string, value bool) *OperationBuilder {
	b.fields = append(b.fields, zap.Bool(key, value))
	return b
}

func (b *OperationBuilder) WithUUID(key string, value uuid.UUID) *OperationBuilder {
	b.fields = append(b.fields, zap.String(key, value.String()))
	return b
}

func (b *OperationBuilder) WithUUIDPtr(key string, value *uuid.UUID) *OperationBuilder {
	if value == nil {
		b.fields = append(b.fields, zap.Skip())
		return b
	}
	return b.WithUUID(key, *value)
}

func (b *OperationBuilder) WithStringer(key string, value fmt.Stringer) *OperationBuilder {
	b.fields = append(b.fields, zap.Stringer(key, value))
	return b
}

func (b *OperationBuilder) WithParam(key string, value any) *OperationBuilder {
	b.fields = append(b.fields, zap.Any(key, value))
	return b
}

func (b *OperationBuilder) Build() *OperationTracer {
	fields := make([]zap.Field, 0, len(b.fields)+2)
	fields = append(fields, zap.String("operation", b.operation))
	if id := requestid.FromContext(b.logger.ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	fields = append(fields, b.fields...)

	return &OperationTracer{
		logger: zap.L().Named(b.logger.name).With(fields...),
		level:  b.logger.level,
		start:  time.Now(),
	}
}

type OperationTracer struct {
	logger *zap.Logger
	level  zapcore.Level
	start  time.Time
}

func (t *OperationTracer) Step(name string) *LogEvent {
	return &LogEvent{
		tracer: t,
		level:  t.level,
		msg:    "step",
		fields: []zap.Field{zap.String("step", name)},
	}
}

func (t *OperationTracer) Success() *LogEvent {
	return &LogEvent{
		tracer: t,
		level:  zapcore.InfoLevel,
		msg:    "operation succeeded",
		fields: []zap.Field{zap.Duration("duration", time.Since(t.start))},
	}
}

func (t *OperationTracer) Error(err error) *LogEvent {
	return &LogEvent{
		tracer: t,
		level:  zapcore.ErrorLevel,
		msg:    "operation failed",
		fields: []zap.Field{zap.Error(err), zap.Duration("duration", time.Since(t.start))},
	}
}

// Warn is used for expected failures such as rejected input.
func (t *OperationTracer) Warn(err error) *LogEvent {
	return &LogEvent{
		tracer: t,
		level:  zapcore.WarnLevel,
		msg:    "operation rejected",
		fields: []zap.Field{zap.Error(err), zap.Duration("duration", time.Since(t.start))},
	}
}

type LogEvent struct {
	tracer *OperationTracer
	level  zapcore.Level
	msg    string
	fields []zap.Field
}

func (e *LogEvent) WithString(key, value string) *LogEvent {
	e.fields = append(e.fields, zap.String(key, value))
	return e
}

func (e *LogEvent) WithInt(key string, value int) *LogEvent {
	e.fields = append(e.fields, zap.Int(key, value))
	return e
}

func (e *LogEvent) WithInt64(key string, value int64) *LogEvent {
	e.fields = append(e.fields, zap.Int64(key, value))
	return e
}

func (e *LogEvent) WithBool(key string, value bool) *LogEvent {
	e.fields = append(e.fields, zap.Bool(key, value))
	return e
}

func (e *LogEvent) WithUUID(key string, value uuid.UUID) *LogEvent {
	e.fields = append(e.fields, zap.String(key, value.String()))
	return e
}

func (e *LogEvent) WithUUIDPtr(key string, value *uuid.UUID) *LogEvent {
	if value == nil {
		return e
	}
	return e.WithUUID(key, *value)
}

func (e *LogEvent) WithStringer(key string, value fmt.Stringer) *LogEvent {
	e.fields = append(e.fields, zap.Stringer(key, value))
	return e
}

func (e *LogEvent) WithDuration(key string, value time.Duration) *LogEvent {
	e.fields = append(e.fields, zap.Duration(key, value))
	return e
}

func (e *LogEvent) WithParam(key string, value any) *LogEvent {
	e.fields = append(e.fields, zap.Any(key, value))
	return e
}

func (e *LogEvent) Log() {
	if ce := e.tracer.logger.Check(e.level, e.msg); ce != nil {
		ce.Write(e.fields...)
	}
}
