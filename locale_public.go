package agency

import (
	"github.com/goliatone/go-agency/internal/locale"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

type (
	// LocaleCode identifies a supported locale such as "de" or "en".
	LocaleCode = locale.Code
	// LocaleSet is the supported locales with their default.
	LocaleSet = locale.Set
	// LocaleResolver maps untrusted locale strings onto a LocaleCode.
	LocaleResolver = locale.Resolver
)

// NewLocaleResolver builds the resolver for the locales in cfg. Fallback
// warnings go to logger.
func NewLocaleResolver(cfg Config, logger interfaces.Logger) (*LocaleResolver, error) {
	set, err := cfg.LocaleSet()
	if err != nil {
		return nil, err
	}
	return locale.NewResolver(set, locale.WithLogger(logger)), nil
}
