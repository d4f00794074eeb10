package media

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-agency/internal/locale"
)

// Asset is either an Image or a Document.
type Asset interface {
	Kind() Kind
	Info() Meta
	isAsset()
}

// Meta holds the attributes shared by every variant.
type Meta struct {
	ID       string      `json:"id"`
	Filename string      `json:"filename,omitempty"`
	URL      string      `json:"url,omitempty"`
	MimeType string      `json:"mime_type,omitempty"`
	Filesize int64       `json:"filesize,omitempty"`
	Alt      locale.Text `json:"alt,omitempty"`
}

// Image is a media record with dimensions.
type Image struct {
	Meta
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Document is a media record without dimensions (PDFs, press kits, riders).
type Document struct {
	Meta
}

func (Image) Kind() Kind      { return KindImage }
func (i Image) Info() Meta    { return i.Meta }
func (Image) isAsset()        {}
func (Document) Kind() Kind   { return KindDocument }
func (d Document) Info() Meta { return d.Meta }
func (Document) isAsset()     {}

// Parse classifies attrs and converts them into the matching Asset.
func Parse(attrs Attributes) (Asset, error) {
	kind, err := Classify(attrs)
	if err != nil {
		return nil, err
	}

	meta := Meta{
		ID:       stringAttr(attrs, "id"),
		Filename: stringAttr(attrs, "filename"),
		URL:      stringAttr(attrs, "url"),
		MimeType: stringAttr(attrs, "mime_type"),
		Filesize: int64Attr(attrs, "filesize"),
		Alt:      textAttr(attrs, "alt"),
	}

	if kind == KindImage {
		return Image{
			Meta:   meta,
			Width:  int(int64Attr(attrs, AttrWidth)),
			Height: int(int64Attr(attrs, AttrHeight)),
		}, nil
	}
	return Document{Meta: meta}, nil
}

// Presentation tells the display layer how to show an asset: images are
// rendered inline, documents are offered for download.
func Presentation(asset Asset) string {
	switch asset.(type) {
	case Image, *Image:
		return "inline"
	case Document, *Document:
		return "download"
	default:
		return ""
	}
}

func stringAttr(attrs Attributes, key string) string {
	switch value := attrs[key].(type) {
	case string:
		return value
	case []byte:
		return string(value)
	case nil:
		return ""
	case json.Number:
		return value.String()
	case int64:
		return strconv.FormatInt(value, 10)
	case int:
		return strconv.Itoa(value)
	default:
		return ""
	}
}

// int64Attr converts numeric-ish values; anything else is zero.
func int64Attr(attrs Attributes, key string) int64 {
	switch value := attrs[key].(type) {
	case int:
		return int64(value)
	case int32:
		return int64(value)
	case int64:
		return value
	case float32:
		return int64(math.Round(float64(value)))
	case float64:
		return int64(math.Round(value))
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return n
		}
		if f, err := value.Float64(); err == nil {
			return int64(math.Round(f))
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return n
		}
	case []byte:
		if n, err := strconv.ParseInt(strings.TrimSpace(string(value)), 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// textAttr accepts a decoded JSON object, a map of strings, or raw JSON.
func textAttr(attrs Attributes, key string) locale.Text {
	switch value := attrs[key].(type) {
	case locale.Text:
		return value
	case map[string]string:
		return locale.Text(value)
	case map[string]any:
		out := make(locale.Text, len(value))
		for k, v := range value {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out
	case string:
		return decodeText([]byte(value))
	case []byte:
		return decodeText(value)
	}
	return nil
}

func decodeText(raw []byte) locale.Text {
	if len(raw) == 0 {
		return nil
	}
	var out locale.Text
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
