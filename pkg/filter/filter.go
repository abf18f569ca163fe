// ABOUTME: Query string parsing into typed field predicates
// ABOUTME: Tokenizer and predicate builder for the collection filter

package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nainya/tunetree/pkg/collection"
	"github.com/nainya/tunetree/pkg/song"
)

// Operator is the comparison operator of one predicate. ":", "=" and
// "==" mean equality ("contains" for strings); "<>" and "!=" mean
// inequality.
type Operator string

const (
	OpContains     Operator = ":"
	OpEqual        Operator = "="
	OpEqualAlt     Operator = "=="
	OpNotEqual     Operator = "<>"
	OpNotEqualAlt  Operator = "!="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// scanOperators is ordered longest symbol first so that "<=" is found
// before "<" at the same offset. The first occurrence in token order
// decides; exactly one operator governs a token.
var scanOperators = []Operator{
	OpEqualAlt, OpLessEqual, OpGreaterEqual, OpNotEqual, OpNotEqualAlt,
	OpContains, OpEqual, OpLess, OpGreater,
}

// operatorSpacing collapses whitespace around operator symbols so that
// "field : value" and "field:value" tokenize identically.
var operatorSpacing = regexp.MustCompile(`\s*(==|<=|>=|<>|:|=|<|>)\s*`)

// FilterData is one structured predicate: a field, a typed value and the
// operator that relates them.
type FilterData struct {
	Field string
	Value song.FieldValue
	Op    Operator
}

// Filter evaluates a live query string against collection tree rows.
// SetQuery parses once; matching afterwards is pure, read-only and safe
// to run concurrently as long as the tree is not mutated mid-evaluation.
type Filter struct {
	model *collection.Model

	query      string
	predicates map[string]FilterData
	residual   string
}

// New creates a filter bound to the collection model whose grouping
// decides which fields containers can match on.
func New(model *collection.Model) *Filter {
	return &Filter{
		model:      model,
		predicates: make(map[string]FilterData),
	}
}

// SetQuery re-parses the query string. Malformed input never fails; it
// degrades to free-text matching.
func (f *Filter) SetQuery(query string) {
	f.query = query
	f.predicates, f.residual = parse(query)
}

// Query returns the raw query string last passed to SetQuery.
func (f *Filter) Query() string {
	return f.query
}

// Empty reports whether the query puts no constraint on rows at all.
func (f *Filter) Empty() bool {
	return len(f.predicates) == 0 && f.residual == ""
}

// Tokenize normalizes operator spacing and splits the query on
// whitespace. Empty input yields no tokens.
func Tokenize(query string) []string {
	return strings.Fields(operatorSpacing.ReplaceAllString(query, "$1"))
}

// parse converts tokens into the predicate map (keyed on the lower-cased
// field name, so a later predicate replaces an earlier one for the same
// field) plus the residual free-text, in original token order.
func parse(query string) (map[string]FilterData, string) {
	predicates := make(map[string]FilterData)
	var residual []string

	tokens := Tokenize(query)
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		if colon := strings.IndexByte(token, ':'); colon >= 0 {
			field := token[:colon]
			value := token[colon+1:]
			if field == "" || value == "" {
				// Half-formed token, drops out entirely.
				continue
			}
			if song.IsTextSearchField(field) && strings.Count(value, `"`) <= 2 {
				i = consumePhrase(tokens, i, field, value, predicates)
				continue
			}
			// Not a text predicate. Fall through to the operator scan,
			// where ":" acts as equality (year:1990, length:3:30).
		}

		if op, idx := findOperator(token); idx >= 0 {
			field := token[:idx]
			value := token[idx+len(op):]
			if value != "" && song.IsNumericalSearchField(field) {
				if fd, ok := buildNumericPredicate(field, value, op); ok {
					predicates[fd.Field] = fd
					continue
				}
			}
		}

		residual = append(residual, token)
	}

	return predicates, strings.Join(residual, " ")
}

// consumePhrase builds a string predicate from a field:value token,
// merging following tokens into the phrase. A quote-opened phrase runs
// until the token carrying the closing quote (its tail is discarded); an
// unquoted value runs until the next token containing an operator, which
// is left for the outer loop to reprocess. Returns the index of the last
// consumed token.
func consumePhrase(tokens []string, i int, field, value string, predicates map[string]FilterData) int {
	quoteStart, quoteEnd := false, false
	if strings.HasPrefix(value, `"`) {
		value = value[1:]
		quoteStart = true
		if len(value) >= 1 && strings.Count(value, `"`) == 1 {
			value = value[:strings.IndexByte(value, '"')]
			quoteEnd = true
		}
	}
	for y := i + 1; y < len(tokens) && !quoteEnd; y++ {
		next := tokens[y]
		if !quoteStart && containsOperator(next) {
			break
		}
		if quoteStart && strings.ContainsRune(next, '"') {
			next = next[:strings.IndexByte(next, '"')]
			quoteEnd = true
		}
		value += " " + next
		i = y
	}

	value = strings.TrimSpace(value)
	if value != "" {
		field = strings.ToLower(field)
		predicates[field] = FilterData{Field: field, Value: song.StringValue(value), Op: OpContains}
	}
	return i
}

// buildNumericPredicate parses the value per the field's numeric kind.
// Failed integer parses reject the predicate so the token degrades to
// residual text.
func buildNumericPredicate(field, value string, op Operator) (FilterData, bool) {
	field = strings.ToLower(field)
	switch {
	case song.IsIntSearchField(field):
		n, err := strconv.Atoi(value)
		if err != nil {
			return FilterData{}, false
		}
		return FilterData{Field: field, Value: song.IntValue(n), Op: op}, true

	case song.IsUIntSearchField(field):
		n, err := strconv.ParseUint(value, 10, strconv.IntSize)
		if err != nil {
			return FilterData{}, false
		}
		return FilterData{Field: field, Value: song.UintValue(uint(n)), Op: op}, true

	case field == "length":
		nsec := song.ParseSearchTime(value) * int64(time.Second)
		return FilterData{Field: field, Value: song.Int64Value(nsec), Op: op}, true

	case field == "rating":
		return FilterData{Field: field, Value: song.FloatValue(song.ParseSearchRating(value)), Op: op}, true
	}
	return FilterData{}, false
}

// findOperator returns the first operator occurring in the token and its
// offset; at equal offsets the longest symbol wins.
func findOperator(token string) (Operator, int) {
	var best Operator
	bestIdx := -1
	for _, op := range scanOperators {
		if idx := strings.Index(token, string(op)); idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best, bestIdx = op, idx
		}
	}
	return best, bestIdx
}

func containsOperator(token string) bool {
	for _, op := range scanOperators {
		if strings.Contains(token, string(op)) {
			return true
		}
	}
	return false
}
