package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-agency/pkg/interfaces"
)

type contextKey string

const contextFieldsKey contextKey = "agency.logging.fields"

// ContextWithFields stores fields on ctx, merged over any fields already there.
// The site middleware uses it to carry request-scoped values such as the
// resolved locale.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return copied
}

// FromContext binds logger to ctx and applies the fields stored on it.
func FromContext(ctx context.Context, logger interfaces.Logger) interfaces.Logger {
	logger = Ensure(logger)
	if ctx == nil {
		return logger
	}
	return WithFields(logger.WithContext(ctx), ContextFields(ctx))
}
