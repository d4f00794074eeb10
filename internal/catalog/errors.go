package catalog

import (
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// CodeStoreUnavailable tags catalog reads that failed for reasons other
// than a missing record.
const CodeStoreUnavailable = "AGENCY_CATALOG_STORE"

// NotFoundError is returned when a catalog record does not exist. Key is
// empty for lookups by slug that matched nothing.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func mapRepositoryError(err error, resource, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.IsCategory(err, repository.CategoryDatabaseNotFound):
		return &NotFoundError{Resource: resource, Key: key}
	default:
		return errors.Wrap(err, errors.CategoryInternal, "loading "+resource).
			WithTextCode(CodeStoreUnavailable)
	}
}
