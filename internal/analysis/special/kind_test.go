package special

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		name     string
		expected Kind
		ok       bool
	}{
		{"compare", KindCompare, true},
		{"copy", KindClone, true},
		{"equal", KindEqual, true},
		{"is_equal", KindEqual, true},
		{"free", KindDestroy, true},
		{"destroy", KindDestroy, true},
		{"ref", KindRefIncrement, true},
		{"ref_", KindRefIncrement, true},
		{"unref", KindRefDecrement, true},
		{"hash", KindHash, true},
		{"to_string", 0, false},
		{"Compare", 0, false}, // case-exact
		{"COPY", 0, false},
		{"frees", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := ParseKind(tt.name)
			if ok != tt.ok {
				t.Fatalf("ParseKind(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if ok && kind != tt.expected {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.name, kind, tt.expected)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	for k := Kind(0); k < kindCount; k++ {
		if k.String() == "unknown" {
			t.Errorf("Kind(%d) has no string representation", k)
		}
	}
}
