package resource

import "net/url"

// key is the comparable form of an identifier: scheme, authority and path
// segments. Query and fragment do not take part in identity.
type key struct {
	root string
	segs []string
}

func parseKey(uri string) (key, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" {
		return key{}, false
	}
	return key{root: u.Scheme + "://" + u.Host, segs: Segments(u.Path)}, true
}

// Same reports whether a and b name the same resource.
func Same(a, b string) bool {
	ka, okA := parseKey(a)
	kb, okB := parseKey(b)
	if !okA || !okB || ka.root != kb.root || len(ka.segs) != len(kb.segs) {
		return false
	}
	return hasPrefix(kb.segs, ka.segs)
}

// IsAncestor reports whether a strictly encloses b: same scheme and
// authority, and a's path segments are a proper prefix of b's.
func IsAncestor(a, b string) bool {
	ka, okA := parseKey(a)
	kb, okB := parseKey(b)
	if !okA || !okB || ka.root != kb.root || len(ka.segs) >= len(kb.segs) {
		return false
	}
	return hasPrefix(kb.segs, ka.segs)
}

func hasPrefix(s, prefix []string) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}
