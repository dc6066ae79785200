package discovery

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCollision marks sources rejected because they share a destination.
var ErrCollision = errors.New("multiple sources map to the same destination")

// Collision is a destination claimed by more than one source. None of
// the sources is converted or copied.
type Collision struct {
	Target  string
	Sources []string
}

func (c Collision) Error() string {
	return fmt.Sprintf("%s: %v (%s)", c.Target, ErrCollision, strings.Join(c.Sources, ", "))
}

func (c Collision) Unwrap() error {
	return ErrCollision
}

// claims records which sources want each destination.
type claims struct {
	order   []string
	sources map[string][]string
}

func newClaims() *claims {
	return &claims{sources: make(map[string][]string)}
}

func (c *claims) add(target, source string) {
	if _, ok := c.sources[target]; !ok {
		c.order = append(c.order, target)
	}
	c.sources[target] = append(c.sources[target], source)
}

func (c *claims) contested(target string) bool {
	return len(c.sources[target]) > 1
}

// collisions lists every contested target in first-claimed order.
func (c *claims) collisions() []Collision {
	var out []Collision
	for _, target := range c.order {
		if srcs := c.sources[target]; len(srcs) > 1 {
			sorted := append([]string(nil), srcs...)
			sort.Strings(sorted)
			out = append(out, Collision{Target: target, Sources: sorted})
		}
	}
	return out
}
