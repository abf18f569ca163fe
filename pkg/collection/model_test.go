// ABOUTME: Tests for collection tree construction and maintenance
// ABOUTME: Covers grouping, dedup, pruning and the loading placeholder

package collection

import (
	"fmt"
	"testing"

	"github.com/nainya/tunetree/pkg/song"
)

func makeSong(id, artist, album, title string, year, track int) *song.Song {
	return &song.Song{
		ID:     id,
		Artist: artist,
		Album:  album,
		Title:  title,
		Year:   year,
		Track:  track,
	}
}

func TestEmptyModel(t *testing.T) {
	m := NewModel(DefaultGrouping)

	if m.Root() == nil || m.Root().Kind != KindRoot {
		t.Fatal("Expected a root item")
	}
	if len(m.Root().Children) != 0 {
		t.Errorf("Expected empty root, got %d children", len(m.Root().Children))
	}
	if m.TotalSongs() != 0 {
		t.Errorf("Expected 0 songs, got %d", m.TotalSongs())
	}
}

func TestAddSongsBuildsContainerChain(t *testing.T) {
	m := NewModel(Grouping{GroupByAlbumArtist, GroupByAlbum, GroupByNone})
	m.AddSongs([]*song.Song{
		makeSong("1", "Fleet Foxes", "Helplessness Blues", "Montezuma", 2011, 1),
		makeSong("2", "Fleet Foxes", "Helplessness Blues", "Bedouin Dress", 2011, 2),
		makeSong("3", "Fleet Foxes", "Fleet Foxes", "White Winter Hymnal", 2008, 3),
	})

	if got := m.ContainerCount(0); got != 1 {
		t.Fatalf("Expected 1 artist container, got %d", got)
	}
	if got := m.ContainerCount(1); got != 2 {
		t.Fatalf("Expected 2 album containers, got %d", got)
	}
	if m.TotalSongs() != 3 {
		t.Fatalf("Expected 3 songs, got %d", m.TotalSongs())
	}

	artist := m.Root().Children[0]
	if artist.Kind != KindContainer || artist.ContainerLevel != 0 {
		t.Fatalf("Expected level-0 container, got kind=%v level=%d", artist.Kind, artist.ContainerLevel)
	}
	if artist.Display != "Fleet Foxes" {
		t.Errorf("Expected artist display 'Fleet Foxes', got %q", artist.Display)
	}
	if len(artist.Children) != 2 {
		t.Fatalf("Expected 2 albums under artist, got %d", len(artist.Children))
	}

	// Albums sort alphabetically; each song points back at its album.
	if artist.Children[0].Display != "Fleet Foxes" || artist.Children[1].Display != "Helplessness Blues" {
		t.Errorf("Unexpected album order: %q, %q", artist.Children[0].Display, artist.Children[1].Display)
	}
	leaf := artist.Children[1].Children[0]
	if leaf.Kind != KindSong || leaf.Parent != artist.Children[1] {
		t.Error("Song leaf must point back at its album container")
	}
}

func TestSameAlbumNameUnderDifferentArtists(t *testing.T) {
	m := NewModel(Grouping{GroupByArtist, GroupByAlbum, GroupByNone})
	m.AddSongs([]*song.Song{
		makeSong("1", "Artist One", "Greatest Hits", "Song A", 1990, 1),
		makeSong("2", "Artist Two", "Greatest Hits", "Song B", 1991, 1),
	})

	if got := m.ContainerCount(1); got != 2 {
		t.Errorf("Albums with the same name under different artists must not merge, got %d containers", got)
	}
}

func TestUnknownTagsGetPlaceholder(t *testing.T) {
	m := NewModel(Grouping{GroupByArtist, GroupByAlbum, GroupByNone})
	m.AddSongs([]*song.Song{makeSong("1", "", "", "Untitled", 0, 0)})

	artist := m.Root().Children[0]
	if artist.Display != "Unknown" {
		t.Errorf("Expected 'Unknown' artist container, got %q", artist.Display)
	}
	if artist.Children[0].Display != "Unknown" {
		t.Errorf("Expected 'Unknown' album container, got %q", artist.Children[0].Display)
	}
}

func TestReAddReplacesSongNode(t *testing.T) {
	m := NewModel(DefaultGrouping)
	m.AddSongs([]*song.Song{makeSong("1", "Artist", "Old Album", "Title", 2000, 1)})
	m.AddSongs([]*song.Song{makeSong("1", "Artist", "New Album", "Title", 2000, 1)})

	if m.TotalSongs() != 1 {
		t.Fatalf("Expected 1 song after re-add, got %d", m.TotalSongs())
	}
	if got := m.ContainerCount(1); got != 1 {
		t.Errorf("Expected the old album to be pruned, got %d album containers", got)
	}
	if m.SongNode("1").Parent.Display != "New Album" {
		t.Errorf("Expected song under 'New Album', got %q", m.SongNode("1").Parent.Display)
	}
}

func TestRemoveSongsPrunesEmptyContainers(t *testing.T) {
	m := NewModel(Grouping{GroupByArtist, GroupByAlbum, GroupByNone})
	one := makeSong("1", "Artist One", "Album One", "Song A", 1990, 1)
	two := makeSong("2", "Artist One", "Album One", "Song B", 1990, 2)
	three := makeSong("3", "Artist Two", "Album Two", "Song C", 1991, 1)
	m.AddSongs([]*song.Song{one, two, three})

	m.RemoveSongs([]*song.Song{one})
	if m.ContainerCount(0) != 2 || m.ContainerCount(1) != 2 {
		t.Error("Removing one of two album songs must keep the containers")
	}

	m.RemoveSongs([]*song.Song{two})
	if m.ContainerCount(0) != 1 || m.ContainerCount(1) != 1 {
		t.Errorf("Expected empty artist and album pruned, got %d/%d containers",
			m.ContainerCount(0), m.ContainerCount(1))
	}

	m.RemoveSongs([]*song.Song{three})
	if len(m.Root().Children) != 0 {
		t.Errorf("Expected an empty tree, got %d root children", len(m.Root().Children))
	}
}

func TestSetGroupByRebuilds(t *testing.T) {
	m := NewModel(Grouping{GroupByArtist, GroupByNone, GroupByNone})
	m.AddSongs([]*song.Song{
		makeSong("1", "Artist One", "Album", "Song A", 1990, 1),
		makeSong("2", "Artist Two", "Album", "Song B", 2001, 1),
	})

	m.SetGroupBy(Grouping{GroupByYear, GroupByNone, GroupByNone})
	if m.TotalSongs() != 2 {
		t.Fatalf("Expected songs to survive regrouping, got %d", m.TotalSongs())
	}
	if got := m.ContainerCount(0); got != 2 {
		t.Fatalf("Expected 2 year containers, got %d", got)
	}
	if m.Root().Children[0].Display != "1990" {
		t.Errorf("Expected years sorted numerically, got %q first", m.Root().Children[0].Display)
	}
}

func TestSetSortSkipsArticles(t *testing.T) {
	m := NewModel(Grouping{GroupByArtist, GroupByNone, GroupByNone})
	m.AddSongs([]*song.Song{
		makeSong("1", "The Beatles", "Abbey Road", "Come Together", 1969, 1),
		makeSong("2", "Santana", "Abraxas", "Oye Como Va", 1970, 1),
	})

	if m.Root().Children[0].Display != "The Beatles" {
		t.Errorf("With article skipping, 'The Beatles' sorts under B; got %q first",
			m.Root().Children[0].Display)
	}

	m.SetSortSkipsArticles(false)
	if m.Root().Children[0].Display != "Santana" {
		t.Errorf("Without article skipping, 'Santana' sorts first; got %q",
			m.Root().Children[0].Display)
	}
	if m.TotalSongs() != 2 {
		t.Errorf("Rebuild must keep the songs, got %d", m.TotalSongs())
	}
}

func TestLoadingPlaceholder(t *testing.T) {
	m := NewModel(DefaultGrouping)
	m.SetLoading(true)

	if len(m.Root().Children) != 1 || m.Root().Children[0].Kind != KindLoadingIndicator {
		t.Fatal("Expected a single loading placeholder row")
	}

	// Idempotent.
	m.SetLoading(true)
	if len(m.Root().Children) != 1 {
		t.Error("SetLoading(true) must not duplicate the placeholder")
	}

	m.AddSongs([]*song.Song{makeSong("1", "Artist", "Album", "Song", 2000, 1)})
	for _, child := range m.Root().Children {
		if child.Kind == KindLoadingIndicator {
			t.Error("Adding songs must remove the loading placeholder")
		}
	}
}

func TestGetChildSongs(t *testing.T) {
	m := NewModel(Grouping{GroupByArtist, GroupByAlbum, GroupByNone})
	var songs []*song.Song
	for i := 1; i <= 4; i++ {
		songs = append(songs, makeSong(fmt.Sprint(i), "Artist", "Album", fmt.Sprintf("Song %d", i), 2000, i))
	}
	m.AddSongs(songs)

	artist := m.Root().Children[0]
	got := m.GetChildSongs(artist)
	if len(got) != 4 {
		t.Fatalf("Expected 4 child songs, got %d", len(got))
	}
	if got[0].Track != 1 || got[3].Track != 4 {
		t.Error("Expected child songs in track order")
	}
}

func TestSongsOrderedByDiscAndTrack(t *testing.T) {
	m := NewModel(Grouping{GroupByAlbum, GroupByNone, GroupByNone})
	a := makeSong("1", "Artist", "Album", "Zebra", 2000, 1)
	b := makeSong("2", "Artist", "Album", "Aardvark", 2000, 2)
	c := makeSong("3", "Artist", "Album", "Opening", 2000, 1)
	c.Disc = 2
	m.AddSongs([]*song.Song{c, b, a})

	album := m.Root().Children[0]
	want := []string{"Zebra", "Aardvark", "Opening"}
	for i, title := range want {
		if album.Children[i].Display != title {
			t.Errorf("Child %d = %q, want %q", i, album.Children[i].Display, title)
		}
	}
}
