package frontend

import (
	"strconv"
	"strings"

	"github.com/roach88/tsbind/internal/ir"
)

// nameCtx is the identifier-construction context for anonymous types.
type nameCtx struct {
	// path starts at the enclosing declaration and grows by one component
	// per field entered.
	path []string

	// granted is an explicit name consumed by the next ident call.
	granted string

	// fromAlias marks a context opened for an alias right-hand side; its
	// synthesized names are numbered from 1.
	fromAlias bool
}

func declCtx(name string) *nameCtx {
	return &nameCtx{path: []string{name}, granted: name}
}

func aliasCtx(name string, granted bool) *nameCtx {
	n := &nameCtx{path: []string{name}, fromAlias: true}
	if granted {
		n.granted = name
	}
	return n
}

// project returns the context for a field of the current type.
func (n *nameCtx) project(field string) *nameCtx {
	path := make([]string, len(n.path), len(n.path)+1)
	copy(path, n.path)
	return &nameCtx{path: append(path, field)}
}

func (n *nameCtx) clone() *nameCtx {
	c := *n
	c.path = append([]string(nil), n.path...)
	return &c
}

func (n *nameCtx) base() string {
	var sb strings.Builder
	for _, p := range n.path {
		sb.WriteString(ir.DetectCase(p).Rule().ToPascal(p))
	}
	return sb.String()
}

// ident returns the next identifier for an anonymous type at n. A granted
// name is returned once; otherwise the path name gets a numeric suffix that
// increases strictly per path and skips names already in use.
func (c *converter) ident(n *nameCtx) string {
	if n.granted != "" {
		name := n.granted
		n.granted = ""
		return name
	}
	base := n.base()
	for {
		suffix := c.counters[base]
		c.counters[base]++
		if n.fromAlias {
			suffix++
		}
		name := base
		if suffix != 0 {
			name += strconv.Itoa(suffix)
		}
		if !c.taken[name] {
			c.taken[name] = true
			return name
		}
	}
}

// identWith returns the path name followed by a fixed suffix.
func (c *converter) identWith(n *nameCtx, suffix string) string {
	if n.granted != "" {
		name := n.granted
		n.granted = ""
		return name
	}
	return c.claim(n.base() + suffix)
}

// claim marks name as used and returns it, or the first of name2, name3, ...
// that is still free.
func (c *converter) claim(name string) string {
	claimed := name
	for i := 2; c.taken[claimed]; i++ {
		claimed = name + strconv.Itoa(i)
	}
	c.taken[claimed] = true
	return claimed
}
