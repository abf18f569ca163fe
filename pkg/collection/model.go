// ABOUTME: Collection tree construction and maintenance
// ABOUTME: Groups songs into container chains per the configured grouping

package collection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nainya/tunetree/pkg/song"
)

// Model maintains the collection tree: a root item, up to three container
// levels per the grouping, and song leaves. Mutations are single-writer;
// the query filter only reads, so callers must not mutate the model while
// an evaluation is running.
type Model struct {
	root    *Item
	groupBy Grouping

	// Song nodes keyed on song ID; container nodes keyed per level on
	// the parent-qualified container key.
	songNodes      map[string]*Item
	containerNodes [3]map[string]*Item

	loadingNode       *Item
	sortSkipsArticles bool
}

// NewModel creates an empty collection tree with the given grouping.
func NewModel(groupBy Grouping) *Model {
	m := &Model{
		root:              newRootItem(),
		groupBy:           groupBy,
		sortSkipsArticles: true,
	}
	m.resetNodes()
	return m
}

func (m *Model) resetNodes() {
	m.songNodes = make(map[string]*Item)
	for i := range m.containerNodes {
		m.containerNodes[i] = make(map[string]*Item)
	}
}

// Root returns the tree root. The root itself is never matched against a
// query.
func (m *Model) Root() *Item {
	return m.root
}

// GroupBy returns the active grouping levels.
func (m *Model) GroupBy() Grouping {
	return m.groupBy
}

// SetSortSkipsArticles controls whether leading English articles are
// ignored in artist sort keys. Changing it rebuilds the tree so existing
// container sort texts pick up the new setting.
func (m *Model) SetSortSkipsArticles(skip bool) {
	if m.sortSkipsArticles == skip {
		return
	}
	m.sortSkipsArticles = skip
	m.SetGroupBy(m.groupBy)
}

// SetGroupBy rebuilds the whole tree under a new grouping.
func (m *Model) SetGroupBy(groupBy Grouping) {
	songs := m.Songs()
	m.root = newRootItem()
	m.loadingNode = nil
	m.groupBy = groupBy
	m.resetNodes()
	m.AddSongs(songs)
}

// SetLoading inserts or removes the always-visible loading placeholder
// row under the root.
func (m *Model) SetLoading(loading bool) {
	if loading {
		if m.loadingNode == nil {
			m.loadingNode = &Item{Kind: KindLoadingIndicator, ContainerLevel: -1, Display: "Loading..."}
			m.root.appendChild(m.loadingNode)
		}
		return
	}
	if m.loadingNode != nil {
		m.root.removeChild(m.loadingNode)
		m.loadingNode = nil
	}
}

// AddSongs inserts songs into the tree, creating the container chain for
// each grouping level on demand. A song whose ID is already present is
// re-added in place of the old node.
func (m *Model) AddSongs(songs []*song.Song) {
	m.SetLoading(false)
	for _, s := range songs {
		if !s.Valid() {
			continue
		}
		if existing, ok := m.songNodes[s.ID]; ok {
			m.removeSongNode(existing)
		}

		parent := m.root
		for level := 0; level < len(m.groupBy); level++ {
			g := m.groupBy[level]
			if g == GroupByNone {
				break
			}
			key := containerKey(g, s)
			if parent != m.root {
				key = parent.Key + "-" + key
			}
			container, ok := m.containerNodes[level][key]
			if !ok {
				container = &Item{
					Kind:           KindContainer,
					ContainerLevel: level,
					Key:            key,
					Display:        containerDisplay(g, s),
					Sort:           containerSortText(g, s, m.sortSkipsArticles),
					Song:           s,
				}
				parent.appendChild(container)
				m.containerNodes[level][key] = container
			}
			parent = container
		}

		node := &Item{
			Kind:           KindSong,
			ContainerLevel: -1,
			Display:        TextOrUnknown(s.Title),
			Sort:           SortTextForSong(s),
			Song:           s,
		}
		parent.appendChild(node)
		m.songNodes[s.ID] = node
	}
	sortItems(m.root)
}

// RemoveSongs removes songs by ID and prunes containers left empty.
func (m *Model) RemoveSongs(songs []*song.Song) {
	for _, s := range songs {
		if node, ok := m.songNodes[s.ID]; ok {
			m.removeSongNode(node)
		}
	}
}

func (m *Model) removeSongNode(node *Item) {
	delete(m.songNodes, node.Song.ID)
	parent := node.Parent
	parent.removeChild(node)
	for parent != nil && parent.Kind == KindContainer && len(parent.Children) == 0 {
		grand := parent.Parent
		delete(m.containerNodes[parent.ContainerLevel], parent.Key)
		grand.removeChild(parent)
		parent = grand
	}
}

// SongNode returns the leaf item for a song ID, or nil.
func (m *Model) SongNode(id string) *Item {
	return m.songNodes[id]
}

// Songs returns all songs currently in the tree.
func (m *Model) Songs() []*song.Song {
	songs := make([]*song.Song, 0, len(m.songNodes))
	for _, node := range m.songNodes {
		songs = append(songs, node.Song)
	}
	return songs
}

// TotalSongs returns the number of song leaves.
func (m *Model) TotalSongs() int {
	return len(m.songNodes)
}

// ContainerCount returns the number of containers at a grouping level.
func (m *Model) ContainerCount(level int) int {
	if level < 0 || level >= len(m.containerNodes) {
		return 0
	}
	return len(m.containerNodes[level])
}

// GetChildSongs collects the songs under an item, depth-first.
func (m *Model) GetChildSongs(item *Item) []*song.Song {
	var songs []*song.Song
	var walk func(*Item)
	walk = func(i *Item) {
		if i.Kind == KindSong {
			songs = append(songs, i.Song)
			return
		}
		for _, child := range i.Children {
			walk(child)
		}
	}
	walk(item)
	return songs
}

func sortItems(item *Item) {
	sort.SliceStable(item.Children, func(a, b int) bool {
		ca, cb := item.Children[a], item.Children[b]
		if ca.Sort != cb.Sort {
			return ca.Sort < cb.Sort
		}
		return ca.Display < cb.Display
	})
	for _, child := range item.Children {
		sortItems(child)
	}
}

// TextOrUnknown substitutes a placeholder for empty tag values.
func TextOrUnknown(text string) string {
	if text == "" {
		return "Unknown"
	}
	return text
}

// PrettyYearAlbum labels a year+album container.
func PrettyYearAlbum(year int, album string) string {
	if year <= 0 {
		return TextOrUnknown(album)
	}
	return fmt.Sprintf("%d - %s", year, TextOrUnknown(album))
}

// PrettyAlbumDisc labels an album+disc container. Albums already naming
// their disc keep their own label.
func PrettyAlbumDisc(album string, disc int) string {
	if disc <= 0 || strings.Contains(strings.ToLower(album), "disc") {
		return TextOrUnknown(album)
	}
	return fmt.Sprintf("%s - (Disc %d)", TextOrUnknown(album), disc)
}

// PrettyYearAlbumDisc labels a year+album+disc container.
func PrettyYearAlbumDisc(year int, album string, disc int) string {
	if year <= 0 {
		return PrettyAlbumDisc(album, disc)
	}
	return fmt.Sprintf("%d - %s", year, PrettyAlbumDisc(album, disc))
}

// PrettyDisc labels a bare disc container.
func PrettyDisc(disc int) string {
	if disc <= 0 {
		disc = 1
	}
	return fmt.Sprintf("Disc %d", disc)
}

func prettyFormat(s *song.Song) string {
	return fmt.Sprintf("%s %d/%d", TextOrUnknown(s.FileType), s.Samplerate, s.Bitdepth)
}

func effectiveOriginalYear(s *song.Song) int {
	if s.OriginalYear > 0 {
		return s.OriginalYear
	}
	return s.Year
}

func containerDisplay(g GroupBy, s *song.Song) string {
	switch g {
	case GroupByAlbumArtist:
		return TextOrUnknown(s.EffectiveAlbumArtist())
	case GroupByArtist:
		return TextOrUnknown(s.Artist)
	case GroupByAlbum:
		return TextOrUnknown(s.Album)
	case GroupByAlbumDisc:
		return PrettyAlbumDisc(s.Album, s.Disc)
	case GroupByYearAlbum:
		return PrettyYearAlbum(s.Year, s.Album)
	case GroupByYearAlbumDisc:
		return PrettyYearAlbumDisc(s.Year, s.Album, s.Disc)
	case GroupByOriginalYearAlbum:
		return PrettyYearAlbum(effectiveOriginalYear(s), s.Album)
	case GroupByOriginalYearAlbumDisc:
		return PrettyYearAlbumDisc(effectiveOriginalYear(s), s.Album, s.Disc)
	case GroupByDisc:
		return PrettyDisc(s.Disc)
	case GroupByYear:
		return strconv.Itoa(max(s.Year, 0))
	case GroupByOriginalYear:
		return strconv.Itoa(max(effectiveOriginalYear(s), 0))
	case GroupByGenre:
		return TextOrUnknown(s.Genre)
	case GroupByComposer:
		return TextOrUnknown(s.Composer)
	case GroupByPerformer:
		return TextOrUnknown(s.Performer)
	case GroupByGrouping:
		return TextOrUnknown(s.Grouping)
	case GroupByFileType:
		return TextOrUnknown(s.FileType)
	case GroupByFormat:
		return prettyFormat(s)
	case GroupBySamplerate:
		return strconv.Itoa(max(s.Samplerate, 0))
	case GroupByBitdepth:
		return strconv.Itoa(max(s.Bitdepth, 0))
	case GroupByBitrate:
		return strconv.Itoa(max(s.Bitrate, 0))
	}
	return ""
}

// containerKey identifies a container within its level; it is further
// qualified with the parent key when nesting.
func containerKey(g GroupBy, s *song.Song) string {
	return containerDisplay(g, s)
}

func containerSortText(g GroupBy, s *song.Song, skipArticles bool) string {
	switch g {
	case GroupByAlbumArtist:
		return SortTextForArtist(s.EffectiveAlbumArtist(), skipArticles)
	case GroupByArtist:
		return SortTextForArtist(s.Artist, skipArticles)
	case GroupByYearAlbum:
		return SortTextForNumber(max(s.Year, 0)) + SortText(s.Album)
	case GroupByYearAlbumDisc:
		return SortTextForNumber(max(s.Year, 0)) + SortText(s.Album) + SortTextForNumber(max(s.Disc, 0))
	case GroupByOriginalYearAlbum:
		return SortTextForNumber(max(effectiveOriginalYear(s), 0)) + SortText(s.Album)
	case GroupByOriginalYearAlbumDisc:
		return SortTextForNumber(max(effectiveOriginalYear(s), 0)) + SortText(s.Album) + SortTextForNumber(max(s.Disc, 0))
	case GroupByYear:
		return SortTextForNumber(max(s.Year, 0))
	case GroupByOriginalYear:
		return SortTextForNumber(max(effectiveOriginalYear(s), 0))
	case GroupByDisc:
		return SortTextForNumber(max(s.Disc, 0))
	case GroupBySamplerate:
		return SortTextForNumber(max(s.Samplerate, 0))
	case GroupByBitdepth:
		return SortTextForNumber(max(s.Bitdepth, 0))
	case GroupByBitrate:
		return SortTextForNumber(max(s.Bitrate, 0))
	}
	return SortText(containerDisplay(g, s))
}
