// ABOUTME: Tree node type for the music collection hierarchy
// ABOUTME: Tagged node kinds replace subclassing; parents are back-pointers

package collection

import "github.com/nainya/tunetree/pkg/song"

// Kind tags what a tree item represents.
type Kind uint8

const (
	KindRoot Kind = iota
	KindContainer
	KindSong
	KindLoadingIndicator
)

// String returns the kind name for logs and API payloads.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindContainer:
		return "container"
	case KindSong:
		return "song"
	case KindLoadingIndicator:
		return "loading"
	}
	return "unknown"
}

// Item is one node of the collection tree. The model owns items through
// the Children slices; Parent is a non-owning back-pointer. The root is
// the unique entry point and carries container level -1.
type Item struct {
	Kind           Kind
	ContainerLevel int // 0-2 for containers, -1 otherwise

	// Key identifies a container within its level (artist name, pretty
	// year-album string, bitrate, ...). Empty for non-containers.
	Key     string
	Display string
	Sort    string

	// Song holds the item's metadata: the actual record for song items,
	// a representative record for containers.
	Song *song.Song

	Parent   *Item
	Children []*Item
}

func newRootItem() *Item {
	return &Item{Kind: KindRoot, ContainerLevel: -1}
}

// DisplayText returns the label shown for the item; residual query text
// is matched against it.
func (i *Item) DisplayText() string {
	return i.Display
}

func (i *Item) appendChild(child *Item) {
	child.Parent = i
	i.Children = append(i.Children, child)
}

func (i *Item) removeChild(child *Item) {
	for n, c := range i.Children {
		if c == child {
			i.Children = append(i.Children[:n], i.Children[n+1:]...)
			child.Parent = nil
			return
		}
	}
}
