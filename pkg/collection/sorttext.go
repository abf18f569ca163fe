// ABOUTME: Sort key generation for tree labels
// ABOUTME: Folds accents, romanizes CJK and skips leading articles

package collection

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nainya/tunetree/pkg/song"
)

// accentFolder strips combining marks so "Björk" sorts next to "Bjork".
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var pinyinArgs = func() pinyin.Args {
	a := pinyin.NewArgs()
	a.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{string(r)}
	}
	return a
}()

// SortText builds a case- and accent-insensitive sort key for a label.
// Han characters are romanized so CJK titles interleave with Latin ones.
func SortText(text string) string {
	text = latinize(text)
	if folded, _, err := transform.String(accentFolder, text); err == nil {
		text = folded
	}
	return strings.TrimSpace(strings.ToLower(text))
}

// SortTextForArtist is SortText with leading English articles skipped.
func SortTextForArtist(artist string, skipArticles bool) string {
	text := SortText(artist)
	if skipArticles {
		for _, article := range []string{"the ", "a ", "an "} {
			if strings.HasPrefix(text, article) {
				return strings.TrimSpace(text[len(article):])
			}
		}
	}
	return text
}

// SortTextForNumber zero-pads so numeric labels sort numerically.
func SortTextForNumber(number int) string {
	return fmt.Sprintf("%04d", number)
}

// SortTextForSong orders songs by disc, then track, then title.
func SortTextForSong(s *song.Song) string {
	return fmt.Sprintf("%03d%04d%s", s.Disc, s.Track, SortText(s.Title))
}

func latinize(text string) string {
	if !strings.ContainsFunc(text, func(r rune) bool { return unicode.Is(unicode.Han, r) }) {
		return text
	}
	return strings.Join(pinyin.LazyPinyin(text, pinyinArgs), "")
}
