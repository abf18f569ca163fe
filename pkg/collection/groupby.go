// ABOUTME: Grouping levels for the collection tree
// ABOUTME: Maps each level to the search fields a container can match on

package collection

import (
	"fmt"
	"strings"
)

// GroupBy selects how songs are aggregated at one level of the tree.
type GroupBy int

const (
	GroupByNone GroupBy = iota
	GroupByAlbumArtist
	GroupByArtist
	GroupByAlbum
	GroupByAlbumDisc
	GroupByYearAlbum
	GroupByYearAlbumDisc
	GroupByOriginalYearAlbum
	GroupByOriginalYearAlbumDisc
	GroupByDisc
	GroupByYear
	GroupByOriginalYear
	GroupByGenre
	GroupByComposer
	GroupByPerformer
	GroupByGrouping
	GroupByFileType
	GroupByFormat
	GroupBySamplerate
	GroupByBitdepth
	GroupByBitrate
	groupByCount
)

// Grouping holds up to three nested grouping levels; GroupByNone ends
// the chain.
type Grouping [3]GroupBy

// DefaultGrouping mirrors the classic artist/album browse tree.
var DefaultGrouping = Grouping{GroupByAlbumArtist, GroupByAlbum, GroupByNone}

var groupByNames = map[GroupBy]string{
	GroupByNone:                  "none",
	GroupByAlbumArtist:           "albumartist",
	GroupByArtist:                "artist",
	GroupByAlbum:                 "album",
	GroupByAlbumDisc:             "albumdisc",
	GroupByYearAlbum:             "yearalbum",
	GroupByYearAlbumDisc:         "yearalbumdisc",
	GroupByOriginalYearAlbum:     "originalyearalbum",
	GroupByOriginalYearAlbumDisc: "originalyearalbumdisc",
	GroupByDisc:                  "disc",
	GroupByYear:                  "year",
	GroupByOriginalYear:          "originalyear",
	GroupByGenre:                 "genre",
	GroupByComposer:              "composer",
	GroupByPerformer:             "performer",
	GroupByGrouping:              "grouping",
	GroupByFileType:              "filetype",
	GroupByFormat:                "format",
	GroupBySamplerate:            "samplerate",
	GroupByBitdepth:              "bitdepth",
	GroupByBitrate:               "bitrate",
}

// String returns the configuration name of the grouping level.
func (g GroupBy) String() string {
	if name, ok := groupByNames[g]; ok {
		return name
	}
	return "unknown"
}

// ParseGroupBy resolves a configuration name to a grouping level.
func ParseGroupBy(name string) (GroupBy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return GroupByNone, nil
	}
	for g, n := range groupByNames {
		if n == name {
			return g, nil
		}
	}
	return GroupByNone, fmt.Errorf("unknown grouping level %q", name)
}

// FieldsForGroupBy returns the search fields a container at this grouping
// level is checked against. A predicate on a field outside this set makes
// the container a non-match.
func FieldsForGroupBy(g GroupBy) []string {
	switch g {
	case GroupByAlbumArtist:
		return []string{"albumartist"}
	case GroupByArtist:
		return []string{"artist"}
	case GroupByAlbum:
		return []string{"album"}
	case GroupByAlbumDisc:
		return []string{"album", "disc"}
	case GroupByYearAlbum:
		return []string{"year", "album"}
	case GroupByYearAlbumDisc:
		return []string{"year", "album", "disc"}
	case GroupByOriginalYearAlbum:
		return []string{"originalyear", "album"}
	case GroupByOriginalYearAlbumDisc:
		return []string{"originalyear", "album", "disc"}
	case GroupByDisc:
		return []string{"disc"}
	case GroupByYear:
		return []string{"year"}
	case GroupByOriginalYear:
		return []string{"originalyear"}
	case GroupByGenre:
		return []string{"genre"}
	case GroupByComposer:
		return []string{"composer"}
	case GroupByPerformer:
		return []string{"performer"}
	case GroupByGrouping:
		return []string{"grouping"}
	case GroupByFileType:
		return []string{"filetype"}
	case GroupByFormat:
		return []string{"format"}
	case GroupBySamplerate:
		return []string{"samplerate"}
	case GroupByBitdepth:
		return []string{"bitdepth"}
	case GroupByBitrate:
		return []string{"bitrate"}
	}
	return nil
}
