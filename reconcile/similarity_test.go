package reconcile

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"one empty", "abc", "", 0.0},
		{"identical", "same text", "same text", 1.0},
		{"classic shifted", "abcd", "bcde", 0.75},
		{"shared prefix", "line2\nline3\nline4", "line2\nline3", 0.7857142857142857},
		{"trailing extension", "the quick brown fox", "the quick brown fox jumps", 0.8636363636363636},
		{"disjoint", "aaaa", "bbbb", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"", "x"},
		{"hello world", "world hello"},
		{"abcabc", "cbacba"},
		{"one line\nand another", "completely different material"},
	}
	for _, p := range pairs {
		got := Ratio(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Ratio(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestRatio_Unicode(t *testing.T) {
	// Runs on runes, not bytes: two distinct 3-byte runes must not
	// partially match.
	if got := Ratio("é", "è"); got != 0 {
		t.Errorf("Ratio of distinct runes = %v, want 0", got)
	}
	if got := Ratio("héllo", "héllo"); got != 1 {
		t.Errorf("Ratio of identical unicode strings = %v, want 1", got)
	}
}
