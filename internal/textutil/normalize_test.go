package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \n\t　", want: ""},
		{name: "spaced cjk", in: "未 有 配 額\n", want: "未有配額"},
		{name: "fullwidth latin", in: "ＡＢＣ１２３", want: "ABC123"},
		{name: "fullwidth punctuation kept as ascii", in: "【！！！】", want: "【!!!】"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		needle         string
		wantVerbatim   bool
		wantNormalized bool
	}{
		{name: "exact", text: "針灸科\n未有配額", needle: "未有配額", wantVerbatim: true, wantNormalized: true},
		{name: "spaced glyphs", text: "未 有 配 額", needle: "未有配額", wantVerbatim: false, wantNormalized: true},
		{name: "split across lines", text: "未有\n配額", needle: "未有配額", wantVerbatim: false, wantNormalized: true},
		{name: "spaced marker", text: "請 選擇你所需要的 科 類", needle: "科類", wantVerbatim: false, wantNormalized: true},
		{name: "absent", text: "針灸科", needle: "科類"},
		{name: "blank needle", text: "anything", needle: "  "},
		{name: "empty needle", text: "anything", needle: ""},
		{name: "empty text", text: "", needle: "未有配額"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Contains(tc.text, tc.needle); got != tc.wantVerbatim {
				t.Fatalf("Contains(%q, %q) = %v, want %v", tc.text, tc.needle, got, tc.wantVerbatim)
			}
			if got := ContainsNormalized(tc.text, tc.needle); got != tc.wantNormalized {
				t.Fatalf("ContainsNormalized(%q, %q) = %v, want %v", tc.text, tc.needle, got, tc.wantNormalized)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("  未有配額  ", 10); got != "未有配額" {
		t.Fatalf("Excerpt short = %q", got)
	}
	if got := Excerpt("abcdef", 3); got != "abc…" {
		t.Fatalf("Excerpt long = %q", got)
	}
	if got := Excerpt("abc", 0); got != "" {
		t.Fatalf("Excerpt zero = %q", got)
	}
}
