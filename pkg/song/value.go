// ABOUTME: Typed field values and the field-name accessor table
// ABOUTME: Resolves a search field name to a song's value without coercion

package song

import "strings"

// Field value kinds. A FieldValue carries exactly one of them; comparing
// values of different kinds is always a non-match, never an error.
const (
	KindInvalid = uint8(0)
	KindString  = uint8(1)
	KindInt     = uint8(2)
	KindUint    = uint8(3)
	KindInt64   = uint8(4)
	KindFloat   = uint8(5)
)

// FieldValue is a tagged value resolved from a song field or parsed from
// a query token.
type FieldValue struct {
	Kind  uint8
	Str   string
	Int   int
	Uint  uint
	Int64 int64
	Float float64
}

// StringValue creates a string field value.
func StringValue(s string) FieldValue {
	return FieldValue{Kind: KindString, Str: s}
}

// IntValue creates a signed integer field value.
func IntValue(i int) FieldValue {
	return FieldValue{Kind: KindInt, Int: i}
}

// UintValue creates an unsigned integer field value.
func UintValue(u uint) FieldValue {
	return FieldValue{Kind: KindUint, Uint: u}
}

// Int64Value creates a 64-bit integer field value (used for lengths in
// nanoseconds).
func Int64Value(i int64) FieldValue {
	return FieldValue{Kind: KindInt64, Int64: i}
}

// FloatValue creates a floating point field value.
func FloatValue(f float64) FieldValue {
	return FieldValue{Kind: KindFloat, Float: f}
}

// Valid reports whether the value carries a concrete kind.
func (v FieldValue) Valid() bool {
	return v.Kind != KindInvalid
}

// fieldAccessors maps every resolvable search field to its accessor.
// Fields used only for grouping keys (disc, originalyear, filetype) are
// deliberately not resolvable; predicates on them never match.
var fieldAccessors = map[string]func(*Song) FieldValue{
	"albumartist": func(s *Song) FieldValue { return StringValue(s.EffectiveAlbumArtist()) },
	"artist":      func(s *Song) FieldValue { return StringValue(s.Artist) },
	"album":       func(s *Song) FieldValue { return StringValue(s.Album) },
	"title":       func(s *Song) FieldValue { return StringValue(s.Title) },
	"composer":    func(s *Song) FieldValue { return StringValue(s.Composer) },
	"performer":   func(s *Song) FieldValue { return StringValue(s.Performer) },
	"grouping":    func(s *Song) FieldValue { return StringValue(s.Grouping) },
	"genre":       func(s *Song) FieldValue { return StringValue(s.Genre) },
	"comment":     func(s *Song) FieldValue { return StringValue(s.Comment) },
	"track":       func(s *Song) FieldValue { return IntValue(s.Track) },
	"year":        func(s *Song) FieldValue { return IntValue(s.Year) },
	"length":      func(s *Song) FieldValue { return Int64Value(s.LengthNanosec) },
	"samplerate":  func(s *Song) FieldValue { return IntValue(s.Samplerate) },
	"bitdepth":    func(s *Song) FieldValue { return IntValue(s.Bitdepth) },
	"bitrate":     func(s *Song) FieldValue { return IntValue(s.Bitrate) },
	"rating":      func(s *Song) FieldValue { return FloatValue(s.Rating) },
	"playcount":   func(s *Song) FieldValue { return UintValue(s.PlayCount) },
	"skipcount":   func(s *Song) FieldValue { return UintValue(s.SkipCount) },
}

// DataFromField resolves a search field name on a song. Unknown field
// names resolve to an invalid value.
func DataFromField(field string, s *Song) FieldValue {
	accessor, ok := fieldAccessors[strings.ToLower(field)]
	if !ok {
		return FieldValue{}
	}
	return accessor(s)
}
