// ABOUTME: Song metadata record and searchable field sets
// ABOUTME: Defines the typed fields the query engine can resolve

package song

import (
	"strings"
	"time"
)

// Song is one media item's metadata. It is treated as immutable while a
// filter evaluation is running; the collection model owns the instances.
type Song struct {
	ID       string `bson:"_id" json:"id"`
	Path     string `bson:"path" json:"path"`
	FileType string `bson:"file_type" json:"file_type"`

	Title       string `bson:"title" json:"title"`
	Artist      string `bson:"artist" json:"artist"`
	AlbumArtist string `bson:"album_artist" json:"album_artist"`
	Album       string `bson:"album" json:"album"`
	Composer    string `bson:"composer" json:"composer"`
	Performer   string `bson:"performer" json:"performer"`
	Grouping    string `bson:"grouping" json:"grouping"`
	Genre       string `bson:"genre" json:"genre"`
	Comment     string `bson:"comment" json:"comment"`

	Track        int `bson:"track" json:"track"`
	Disc         int `bson:"disc" json:"disc"`
	Year         int `bson:"year" json:"year"`
	OriginalYear int `bson:"original_year" json:"original_year"`
	Samplerate   int `bson:"samplerate" json:"samplerate"`
	Bitdepth     int `bson:"bitdepth" json:"bitdepth"`
	Bitrate      int `bson:"bitrate" json:"bitrate"`

	PlayCount uint `bson:"play_count" json:"play_count"`
	SkipCount uint `bson:"skip_count" json:"skip_count"`

	// Length is stored in nanoseconds.
	LengthNanosec int64 `bson:"length_nanosec" json:"length_nanosec"`

	// Rating is normalized to [0, 1]; negative means unrated.
	Rating float64 `bson:"rating" json:"rating"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Valid reports whether the record refers to an actual library entry.
func (s *Song) Valid() bool {
	return s != nil && s.ID != ""
}

// EffectiveAlbumArtist returns the album artist, falling back to the
// track artist when no album artist is tagged.
func (s *Song) EffectiveAlbumArtist() string {
	if s.AlbumArtist != "" {
		return s.AlbumArtist
	}
	return s.Artist
}

// Length returns the track length as a duration.
func (s *Song) Length() time.Duration {
	return time.Duration(s.LengthNanosec)
}

// Field sets the query parser checks tokens against. Membership is
// case-insensitive.
var (
	// TextSearchFields can appear as field:value string predicates.
	TextSearchFields = []string{
		"albumartist", "artist", "album", "title",
		"composer", "performer", "grouping", "genre", "comment",
	}

	// NumericalSearchFields can appear with comparison operators.
	NumericalSearchFields = []string{
		"track", "year", "length", "samplerate", "bitdepth", "bitrate",
		"rating", "playcount", "skipcount",
	}

	// IntSearchFields is the signed integer subset of NumericalSearchFields.
	IntSearchFields = []string{"track", "year", "samplerate", "bitdepth", "bitrate"}

	// UIntSearchFields is the unsigned integer subset of NumericalSearchFields.
	UIntSearchFields = []string{"playcount", "skipcount"}
)

// IsTextSearchField reports whether field is a text-searchable field.
func IsTextSearchField(field string) bool {
	return containsFold(TextSearchFields, field)
}

// IsNumericalSearchField reports whether field accepts comparison operators.
func IsNumericalSearchField(field string) bool {
	return containsFold(NumericalSearchFields, field)
}

// IsIntSearchField reports whether field holds a signed integer.
func IsIntSearchField(field string) bool {
	return containsFold(IntSearchFields, field)
}

// IsUIntSearchField reports whether field holds an unsigned integer.
func IsUIntSearchField(field string) bool {
	return containsFold(UIntSearchFields, field)
}

func containsFold(fields []string, field string) bool {
	for _, f := range fields {
		if strings.EqualFold(f, field) {
			return true
		}
	}
	return false
}
