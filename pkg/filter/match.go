// ABOUTME: Tree-row matching for parsed queries
// ABOUTME: Tests a row, its ancestors and its descendants with short-circuiting

package filter

import (
	"strings"

	"github.com/nainya/tunetree/pkg/collection"
	"github.com/nainya/tunetree/pkg/song"
)

// AcceptsRow decides visibility for one tree row: the row is visible when
// the row itself, any ancestor below the root, or any descendant matches
// the query. Loading placeholder rows are always visible.
func (f *Filter) AcceptsRow(item *collection.Item) bool {
	if item == nil {
		return false
	}
	if item.Kind == collection.KindLoadingIndicator {
		return true
	}
	if f.Empty() {
		return true
	}

	if f.itemMatches(item) {
		return true
	}
	for parent := item.Parent; parent != nil && parent.Kind != collection.KindRoot; parent = parent.Parent {
		if f.itemMatches(parent) {
			return true
		}
	}
	return f.childrenMatch(item)
}

func (f *Filter) childrenMatch(item *collection.Item) bool {
	for _, child := range item.Children {
		if f.itemMatches(child) {
			return true
		}
		if f.childrenMatch(child) {
			return true
		}
	}
	return false
}

// itemMatches tests a single item: the residual text must appear in the
// display label, then song items must satisfy every predicate and
// container items the predicates restricted to their grouping level's
// fields.
func (f *Filter) itemMatches(item *collection.Item) bool {
	if f.residual != "" && !containsFold(item.DisplayText(), f.residual) {
		return false
	}
	if len(f.predicates) == 0 {
		return true
	}

	switch item.Kind {
	case collection.KindSong:
		return item.Song.Valid() && f.metadataMatches(item.Song, nil)
	case collection.KindContainer:
		if item.Song == nil || item.ContainerLevel < 0 || item.ContainerLevel > 2 {
			return false
		}
		fields := collection.FieldsForGroupBy(f.model.GroupBy()[item.ContainerLevel])
		return f.metadataMatches(item.Song, fields)
	}
	return false
}

// metadataMatches requires every predicate to hold. A non-empty fields
// set restricts which predicate fields the item may be matched on; a
// predicate outside the set is a hard non-match. A predicate on a field
// the record cannot express counts as satisfied.
func (f *Filter) metadataMatches(s *song.Song, fields []string) bool {
	for field, fd := range f.predicates {
		if field == "" || !fd.Value.Valid() {
			continue
		}
		if len(fields) > 0 && !containsString(fields, field) {
			return false
		}
		data := song.DataFromField(field, s)
		if !data.Valid() {
			continue
		}
		if data.Kind != fd.Value.Kind || !valueMatches(fd.Value, data, fd.Op) {
			return false
		}
	}
	return true
}

// valueMatches compares a resolved field value against a predicate value
// of the same kind. Strings use case-insensitive containment regardless
// of operator; numeric kinds dispatch on the operator.
func valueMatches(value, data song.FieldValue, op Operator) bool {
	switch value.Kind {
	case song.KindString:
		return containsFold(data.Str, value.Str)
	case song.KindInt:
		return compareNumeric(data.Int, value.Int, op)
	case song.KindUint:
		return compareNumeric(data.Uint, value.Uint, op)
	case song.KindInt64:
		return compareNumeric(data.Int64, value.Int64, op)
	case song.KindFloat:
		return compareNumeric(data.Float, value.Float, op)
	}
	return false
}

func compareNumeric[T int | uint | int64 | float64](data, value T, op Operator) bool {
	switch op {
	case OpContains, OpEqual, OpEqualAlt:
		return data == value
	case OpNotEqual, OpNotEqualAlt:
		return data != value
	case OpLess:
		return data < value
	case OpLessEqual:
		return data <= value
	case OpGreater:
		return data > value
	case OpGreaterEqual:
		return data >= value
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func containsString(list []string, s string) bool {
	for _, entry := range list {
		if entry == s {
			return true
		}
	}
	return false
}
