package util

import (
	"testing"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name string
		vals []interface{}
		want string
	}{
		{
			name: "Empty input",
			vals: []interface{}{},
			want: "ef46db3751d8e999",
		},
		{
			name: "Single value",
			vals: []interface{}{"hello"},
			want: "26c7827d889f6da3",
		},
		{
			name: "Multiple values",
			vals: []interface{}{"hello", 42, true},
			want: "d481b75d0fa4abff",
		},
		{
			name: "Nil only",
			vals: []interface{}{nil},
			want: "7c5b4e400f80bf7c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hash(tt.vals...)
			if got != tt.want {
				t.Errorf("Hash() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHashStable(t *testing.T) {
	a := Hash("export type Author = {};\n")
	b := Hash("export type Author = {};\n")
	if a != b {
		t.Errorf("Hash() not stable: %v != %v", a, b)
	}
}
