package roles

import "fmt"

// ID is the stable symbolic key of a role. It is unique within a registry and is
// the value used to reference roles from other roles' child lists.
type ID string

// Role describes one position in the configuration schema tree.
type Role struct {
	ID ID `yaml:"id"`

	// Name is the display label. Empty means absent: the role only groups its
	// children and is never rendered as a standalone leaf.
	Name string `yaml:"name,omitempty"`

	// Optional roles may be omitted from a valid configuration.
	Optional bool `yaml:"optional"`

	// Multiple roles may appear more than once under their parent.
	Multiple bool `yaml:"multiple"`

	// Reorderable instances may be moved among their siblings without changing meaning.
	Reorderable bool `yaml:"reorderable"`

	// Children lists the roles legally nestable directly beneath this one,
	// in canonical display and validation order.
	Children []ID `yaml:"children,omitempty"`
}

// IsGrouping reports whether the role has no display name
func (r Role) IsGrouping() bool {
	return r.Name == ""
}

// IsLeaf reports whether no role may be nested beneath this one
func (r Role) IsLeaf() bool {
	return len(r.Children) == 0
}

// Cardinality returns how many instances of the role may appear under its parent
func (r Role) Cardinality() Cardinality {
	switch {
	case r.Optional && r.Multiple:
		return ZeroOrMore
	case r.Optional:
		return ZeroOrOne
	case r.Multiple:
		return OneOrMore
	default:
		return ExactlyOne
	}
}

// HasChild reports whether id is one of the declared child roles
func (r Role) HasChild(id ID) bool {
	for _, child := range r.Children {
		if child == id {
			return true
		}
	}
	return false
}

// clone returns a copy that shares no memory with r
func (r Role) clone() Role {
	if r.Children != nil {
		children := make([]ID, len(r.Children))
		copy(children, r.Children)
		r.Children = children
	}
	return r
}

func (r Role) String() string {
	if r.Name == "" {
		return string(r.ID)
	}
	return fmt.Sprintf("%s (%s)", r.ID, r.Name)
}

// Cardinality is the optional/multiple combination of a role
type Cardinality int

const (
	ExactlyOne Cardinality = iota
	ZeroOrOne
	OneOrMore
	ZeroOrMore
)

// Unbounded is the Max of a cardinality without an upper limit
const Unbounded = -1

// Min returns the smallest legal instance count
func (c Cardinality) Min() int {
	switch c {
	case ExactlyOne, OneOrMore:
		return 1
	default:
		return 0
	}
}

// Max returns the largest legal instance count, or Unbounded
func (c Cardinality) Max() int {
	switch c {
	case ExactlyOne, ZeroOrOne:
		return 1
	default:
		return Unbounded
	}
}

// Allows reports whether count instances satisfy the cardinality
func (c Cardinality) Allows(count int) bool {
	if count < c.Min() {
		return false
	}
	return c.Max() == Unbounded || count <= c.Max()
}

func (c Cardinality) String() string {
	switch c {
	case ExactlyOne:
		return "exactly one"
	case ZeroOrOne:
		return "zero or one"
	case OneOrMore:
		return "one or more"
	case ZeroOrMore:
		return "zero or more"
	default:
		return fmt.Sprintf("cardinality(%d)", int(c))
	}
}
