package agency

import "github.com/goliatone/go-agency/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrSiteAddressRequired    = runtimeconfig.ErrSiteAddressRequired
	ErrSlugModeInvalid        = runtimeconfig.ErrSlugModeInvalid
	ErrSlugPageSizeInvalid    = runtimeconfig.ErrSlugPageSizeInvalid
)

type (
	Config        = runtimeconfig.Config
	LocaleConfig  = runtimeconfig.LocaleConfig
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	SiteConfig    = runtimeconfig.SiteConfig
	SlugConfig    = runtimeconfig.SlugConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads the optional YAML file at path and AGENCY_* environment
// overrides on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
