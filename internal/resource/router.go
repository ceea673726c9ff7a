// Package resource classifies resource identifiers into the targets the
// data-access layer operates on: the product collection or a single
// product.
package resource

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Kind is the target class of a resource identifier.
type Kind int

const (
	KindUnknown Kind = iota
	KindCollection
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "collection"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// Pattern wildcards. A "#" segment matches a decimal id, a "*" segment
// matches any single segment.
const (
	wildNumber = "#"
	wildText   = "*"
)

// Target is a classified resource identifier. ID is set only for
// KindItem.
type Target struct {
	URI  string
	Kind Kind
	ID   int64
}

type rule struct {
	authority string
	segments  []string
	kind      Kind
}

// Router holds an ordered list of pattern rules. The first rule that
// matches an identifier decides its kind.
type Router struct {
	rules []rule
}

// NewRouter returns a router with the two product rules registered for
// authority: <PathProducts> as the collection and <PathProducts>/# as an
// item.
func NewRouter(authority string) *Router {
	r := &Router{}
	r.Add(authority, types.PathProducts, KindCollection)
	r.Add(authority, types.PathProducts+"/"+wildNumber, KindItem)
	return r
}

// Add appends a rule. path is slash-separated and may contain wildcard
// segments. Rules are evaluated in the order they were added.
func (r *Router) Add(authority, path string, kind Kind) *Router {
	r.rules = append(r.rules, rule{
		authority: authority,
		segments:  Segments(path),
		kind:      kind,
	})
	return r
}

// Classify matches uri against the rules. It returns ErrUnsupportedResource
// when the identifier is malformed or no rule matches.
func (r *Router) Classify(uri string) (Target, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != types.Scheme {
		return Target{}, unsupported(uri)
	}
	segs := Segments(u.Path)

	for _, rl := range r.rules {
		if rl.authority != u.Host || len(rl.segments) != len(segs) {
			continue
		}
		id, ok := rl.match(segs)
		if !ok {
			continue
		}
		t := Target{URI: uri, Kind: rl.kind}
		if rl.kind == KindItem {
			t.ID = id
		}
		return t, nil
	}
	return Target{}, unsupported(uri)
}

// match compares segments against the rule and returns the value captured
// by the last numeric wildcard.
func (rl rule) match(segs []string) (int64, bool) {
	var id int64
	for i, want := range rl.segments {
		got := segs[i]
		switch want {
		case wildNumber:
			n, err := ParseID(got)
			if err != nil {
				return 0, false
			}
			id = n
		case wildText:
		default:
			if got != want {
				return 0, false
			}
		}
	}
	return id, true
}

// ParseID parses an item id segment. It accepts only unsigned decimal
// digits that fit an int64.
func ParseID(s string) (int64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseInt(s, 10, 64)
}

func unsupported(uri string) error {
	return fmt.Errorf("%w: %q", types.ErrUnsupportedResource, uri)
}

// Segments splits a path into its non-empty segments.
func Segments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
