package types

// ItemKind distinguishes directories from files.
type ItemKind int

const (
	KindFile ItemKind = iota
	KindDirectory
)

// Item is a browsable entry. Path is the canonical origin path and is the
// only identity an Item has.
type Item struct {
	Kind       ItemKind
	Path       string
	Label      string
	Basename   string
	FileCount  int
	ImageFirst string
	Video      bool
	Locked     bool
}

// IsDir reports whether the item is a directory.
func (i Item) IsDir() bool {
	return i.Kind == KindDirectory
}

// ItemList is the ordered sequence of file items shown for one root path.
// It is rebuilt on every navigation and never mutated in place.
type ItemList struct {
	items []Item
}

// NewItemList copies items into a new list.
func NewItemList(items []Item) ItemList {
	cp := make([]Item, len(items))
	copy(cp, items)
	return ItemList{items: cp}
}

// Len returns the number of items.
func (l ItemList) Len() int {
	return len(l.items)
}

// At returns the item at index i.
func (l ItemList) At(i int) Item {
	return l.items[i]
}

// IndexOf returns the index of the item with the given path, or -1.
func (l ItemList) IndexOf(path string) int {
	for i, it := range l.items {
		if it.Path == path {
			return i
		}
	}
	return -1
}

// Items returns a copy of the items.
func (l ItemList) Items() []Item {
	cp := make([]Item, len(l.items))
	copy(cp, l.items)
	return cp
}
