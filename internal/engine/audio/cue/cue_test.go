package cue

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		c    Cue
		want string
	}{
		{Placed, "placed"},
		{Loaded, "loaded"},
		{Failed, "failed"},
		{Effect, "effect"},
		{Cue(9), "cue(9)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Cue(%d).String() = %q, want %q", int(tt.c), got, tt.want)
		}
	}
}
