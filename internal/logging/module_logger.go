package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-agency/pkg/interfaces"
)

const (
	rootModule       = "agency"
	localeModule     = "agency.locale"
	mediaModule      = "agency.media"
	slugsModule      = "agency.slugs"
	migrationsModule = "agency.migrations"
	siteModule       = "agency.site"
)

const (
	fieldCollection = "collection"
	fieldLocale     = "locale"
	fieldRecordID   = "record_id"
)

// ModuleLogger returns a logger scoped to module. Without a provider, or when
// the provider has nothing for that name, a no-op logger is returned. The
// module name is always attached as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// LocaleLogger is used by the locale resolver for fallback warnings.
func LocaleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, localeModule)
}

// MediaLogger is used when media records fail classification.
func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediaModule)
}

// SlugsLogger is used by the slug backfill.
func SlugsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, slugsModule)
}

// MigrationsLogger is used by the one-off import tools.
func MigrationsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, migrationsModule)
}

// SiteLogger is used by the public HTTP surface.
func SiteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, siteModule)
}

// WithRecordContext annotates logger with the collection and record being
// processed. Empty values are left out.
func WithRecordContext(logger interfaces.Logger, collection, id string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(collection); trimmed != "" {
		fields[fieldCollection] = trimmed
	}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldRecordID] = trimmed
	}
	return WithFields(logger, fields)
}

// WithLocale annotates logger with the locale in effect.
func WithLocale(logger interfaces.Logger, locale string) interfaces.Logger {
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		return WithFields(logger, map[string]any{fieldLocale: trimmed})
	}
	return logger
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
