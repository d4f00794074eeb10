package media

import (
	"errors"
	"testing"
)

func TestPredicatesOnConcreteRecords(t *testing.T) {
	image := Attributes{"width": 400, "height": 300}
	if !IsImageVariant(image) || IsDocumentVariant(image) {
		t.Fatalf("expected %v to be an image only", image)
	}

	empty := Attributes{}
	if !IsDocumentVariant(empty) || IsImageVariant(empty) {
		t.Fatalf("expected empty record to be a document only")
	}

	if !IsDocumentVariant(nil) {
		t.Fatal("expected nil attributes to be a document")
	}
}

func TestImagePredicateIsExistenceCheck(t *testing.T) {
	cases := []Attributes{
		{"width": 0, "height": 0},
		{"width": -5, "height": -1},
		{"width": "wide", "height": "tall"},
	}
	for _, attrs := range cases {
		if !IsImageVariant(attrs) {
			t.Fatalf("expected %v to classify as image", attrs)
		}
		if IsDocumentVariant(attrs) {
			t.Fatalf("expected %v not to classify as document", attrs)
		}
	}
}

func TestNilValuesCountAsAbsent(t *testing.T) {
	attrs := Attributes{"width": nil, "height": nil, "filename": "rider.pdf"}
	if IsImageVariant(attrs) {
		t.Fatal("nil dimensions must not classify as image")
	}
	if !IsDocumentVariant(attrs) {
		t.Fatal("nil width must classify as document")
	}
}

func TestWidthWithoutHeightMatchesNeither(t *testing.T) {
	attrs := Attributes{"id": "m-1", "width": 100}
	if IsImageVariant(attrs) || IsDocumentVariant(attrs) {
		t.Fatalf("expected neither predicate to hold for %v", attrs)
	}

	_, err := Classify(attrs)
	if !errors.Is(err, ErrUnclassifiedMedia) {
		t.Fatalf("expected ErrUnclassifiedMedia, got %v", err)
	}
	var classErr *ClassificationError
	if !errors.As(err, &classErr) || classErr.ID != "m-1" {
		t.Fatalf("expected ClassificationError for m-1, got %#v", err)
	}
}

func TestHeightWithoutWidthIsDocument(t *testing.T) {
	kind, err := Classify(Attributes{"height": 10})
	if err != nil || kind != KindDocument {
		t.Fatalf("expected document, got %q %v", kind, err)
	}
}
