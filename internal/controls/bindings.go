package controls

import (
	"fmt"
	"sort"
	"strings"
)

// Keymap resolves key names to actions.
type Keymap map[string]Action

// NewKeymap inverts an action -> key binding table. Key names are compared
// case-insensitively.
func NewKeymap(bindings map[string]string) (Keymap, error) {
	km := make(Keymap, len(bindings))

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a, err := ParseAction(name)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(strings.TrimSpace(bindings[name]))
		if key == "" {
			continue
		}
		if prev, ok := km[key]; ok {
			return nil, fmt.Errorf("key %q bound to both %s and %s", key, prev, a)
		}
		km[key] = a
	}
	return km, nil
}

// Lookup returns the action bound to key.
func (km Keymap) Lookup(key string) (Action, bool) {
	a, ok := km[strings.ToLower(key)]
	return a, ok
}

// Keys returns the key names that are bound, sorted.
func (km Keymap) Keys() []string {
	keys := make([]string, 0, len(km))
	for k := range km {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
