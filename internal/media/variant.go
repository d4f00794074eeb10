// Package media classifies stored media records as images or documents.
//
// Records arrive from the content store as untyped attribute maps. The
// predicates IsImageVariant and IsDocumentVariant inspect their shape; Parse
// applies them once and hands back a typed Asset so the rest of the code can
// switch on Image and Document instead of sniffing attributes again.
package media

import (
	"errors"
	"fmt"
)

// Attribute names used for classification.
const (
	AttrWidth  = "width"
	AttrHeight = "height"
)

// Attributes is an untyped media record. A key holding nil counts as absent,
// which is how NULL columns come back from the store.
type Attributes map[string]any

// Has reports whether key is present with a non-nil value.
func (a Attributes) Has(key string) bool {
	if a == nil {
		return false
	}
	value, ok := a[key]
	return ok && value != nil
}

// IsImageVariant reports whether both width and height are present. Values
// are not validated; zero or negative dimensions still classify as image.
func IsImageVariant(attrs Attributes) bool {
	return attrs.Has(AttrWidth) && attrs.Has(AttrHeight)
}

// IsDocumentVariant reports whether width is absent.
//
// It is deliberately not the complement of IsImageVariant: a record with a
// width but no height satisfies neither and must be treated as bad data.
func IsDocumentVariant(attrs Attributes) bool {
	return !attrs.Has(AttrWidth)
}

// Kind names a media variant.
type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

// ErrUnclassifiedMedia is returned when a record is neither an image nor a
// document.
var ErrUnclassifiedMedia = errors.New("media: record matches no media variant")

// ClassificationError carries the offending record id.
type ClassificationError struct {
	ID     string
	Reason string
}

func (e *ClassificationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("media: unclassified record: %s", e.Reason)
	}
	return fmt.Sprintf("media: unclassified record %q: %s", e.ID, e.Reason)
}

func (e *ClassificationError) Unwrap() error { return ErrUnclassifiedMedia }

// Classify returns the variant of attrs without building an Asset.
func Classify(attrs Attributes) (Kind, error) {
	switch {
	case IsImageVariant(attrs):
		return KindImage, nil
	case IsDocumentVariant(attrs):
		return KindDocument, nil
	default:
		return "", &ClassificationError{
			ID:     stringAttr(attrs, "id"),
			Reason: "width present without height",
		}
	}
}
