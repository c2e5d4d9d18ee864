package controls

import (
	"testing"

	"github.com/Faultbox/arviewer/internal/config"
)

func TestDefaultKeymap(t *testing.T) {
	km, err := NewKeymap(config.DefaultBindings())
	if err != nil {
		t.Fatalf("NewKeymap: %v", err)
	}
	if a, ok := km.Lookup("Space"); !ok || a != ActionSelect {
		t.Errorf("Lookup(Space) = %v, %v", a, ok)
	}
	if a, ok := km.Lookup("r"); !ok || a != ActionRotation {
		t.Errorf("Lookup(r) = %v, %v", a, ok)
	}
	if _, ok := km.Lookup("F12"); ok {
		t.Error("unbound key resolved")
	}
	if len(km.Keys()) != len(config.DefaultBindings()) {
		t.Errorf("keys = %d", len(km.Keys()))
	}
}

func TestKeymapErrors(t *testing.T) {
	tests := []struct {
		name     string
		bindings map[string]string
	}{
		{"unknown action", map[string]string{"teleport": "Q"}},
		{"duplicate key", map[string]string{"rotation": "R", "pulse": "r"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewKeymap(tt.bindings); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestKeymapSkipsEmptyKeys(t *testing.T) {
	km, err := NewKeymap(map[string]string{"rotation": "", "pulse": "P"})
	if err != nil {
		t.Fatalf("NewKeymap: %v", err)
	}
	if len(km) != 1 {
		t.Errorf("len = %d, want 1", len(km))
	}
}
