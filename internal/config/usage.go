package config

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
)

//Defines a layer of engine properties. A usage may be linked to another usage
//which is consulted for every key the layer does not define, so an application
//usage linked to Defaults() only needs to carry the values it overrides.
type Usage struct {
	Name    string
	Strings map[string]string
	Ints    map[string]int
	Bools   map[string]bool
	Floats  map[string]float32
	Linked  *Usage
}

func NewUsage(name string, default_size uint) *Usage {
	var use Usage
	use.Name = name
	use.Strings = make(map[string]string, default_size)
	use.Ints = make(map[string]int, default_size)
	use.Bools = make(map[string]bool, default_size)
	use.Floats = make(map[string]float32, default_size)
	return &use
}

func (u *Usage) HasNext() bool {
	return u.Linked != nil
}

func (u *Usage) GetLinkedUsage() (*Usage, error) {
	if !u.HasNext() {
		return nil, errors.Errorf("properties %s have no linked usage", u.Name)
	}
	return u.Linked, nil
}

// String looks key up through the linked chain.
func (u *Usage) String(key string) (string, bool) {
	for use := u; use != nil; use = use.Linked {
		if v, ok := use.Strings[key]; ok {
			return v, true
		}
	}
	return "", false
}

func (u *Usage) Int(key string) (int, bool) {
	for use := u; use != nil; use = use.Linked {
		if v, ok := use.Ints[key]; ok {
			return v, true
		}
	}
	return 0, false
}

func (u *Usage) Bool(key string) (bool, bool) {
	for use := u; use != nil; use = use.Linked {
		if v, ok := use.Bools[key]; ok {
			return v, true
		}
	}
	return false, false
}

func (u *Usage) Float(key string) (float32, bool) {
	for use := u; use != nil; use = use.Linked {
		if v, ok := use.Floats[key]; ok {
			return v, true
		}
	}
	return 0, false
}

//Prints usage tree, one sorted key per line
func (u *Usage) Print(w io.Writer) {
	for use := u; use != nil; use = use.Linked {
		fmt.Fprintf(w, "[%s]\n", use.Name)
		printSorted(w, use.Strings)
		printSorted(w, use.Ints)
		printSorted(w, use.Bools)
		printSorted(w, use.Floats)
	}
}

func printSorted[V any](w io.Writer, m map[string]V) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s = %v\n", k, m[k])
	}
}
