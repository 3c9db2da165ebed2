package shared

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// ValueObject is implemented by types whose equality is structural over an
// ordered list of components.
type ValueObject interface {
	Components() []any
}

// ValuesEqual compares concrete type and components in order.
func ValuesEqual(a, b ValueObject) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	ca, cb := a.Components(), b.Components()
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if !reflect.DeepEqual(ca[i], cb[i]) {
			return false
		}
	}
	return true
}

// ValueHash combines the hashes of the ordered components. Equal values
// always hash equally.
func ValueHash(v ValueObject) uint64 {
	d := xxhash.New()
	for _, c := range v.Components() {
		_, _ = fmt.Fprintf(d, "%T:%v|", c, c)
	}
	return d.Sum64()
}
