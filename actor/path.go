package actor

import "strings"

// RootName is the name segment every ActorPath is rooted at.
const RootName = "root"

// ActorPath is the immutable, hierarchical identity of an actor: an ordered
// list of name segments rooted at "/root". Two refs are equal iff their
// paths are equal; equality and hashing are both by full string form.
//
// An ActorPath is created once, when a cell is created, and never mutated —
// appending a child segment produces a new ActorPath rather than mutating
// the parent's.
type ActorPath struct {
	segments []string
	str      string
}

// RootPath is the path of the root guardian.
func RootPath() ActorPath {
	return newPath([]string{RootName})
}

func newPath(segments []string) ActorPath {
	return ActorPath{segments: segments, str: "/" + strings.Join(segments, "/")}
}

// Child returns the path obtained by appending name as a new trailing
// segment. The receiver is left unmodified.
func (p ActorPath) Child(name string) ActorPath {
	segs := make([]string, len(p.segments)+1)
	copy(segs, p.segments)
	segs[len(p.segments)] = name
	return newPath(segs)
}

// Segments returns the path's name segments, starting with "root".
func (p ActorPath) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Name returns the final segment, i.e. the actor's own name among its
// siblings.
func (p ActorPath) Name() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Equal reports whether p and o denote the same path.
func (p ActorPath) Equal(o ActorPath) bool { return p.str == o.str }

// String renders the path as "/seg1/seg2/...".
func (p ActorPath) String() string { return p.str }

// ParsePath splits a "/root/a/b"-form string into its segments. It does not
// validate that the path begins with RootName; actor_select is responsible
// for that.
func ParsePath(s string) []string {
	trimmed := strings.Trim(s, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
