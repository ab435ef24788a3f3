package handle

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "tags and accents", source: "<b>Café 123!</b>", want: "cafe123"},
		{name: "leading digits", source: "1000 Ideas", want: "ideas"},
		{name: "plain", source: "Blog", want: "blog"},
		{name: "spaces and punctuation", source: "My Blog Posts!", want: "myblogposts"},
		{name: "entities", source: "Tom &amp; Jerry", want: "tomjerry"},
		{name: "ampersand", source: "Q&A", want: "qa"},
		{name: "sharp s", source: "Straße", want: "strasse"},
		{name: "ligature", source: "Encyclopædia", want: "encyclopaedia"},
		{name: "nordic", source: "Ørsted Łódź", want: "orstedlodz"},
		{name: "digits after letter kept", source: "Top 10", want: "top10"},
		{name: "leading symbols and digits", source: "  -- 42 _x1", want: "x1"},
		{name: "only digits", source: "2024", want: ""},
		{name: "empty", source: "", want: ""},
		{name: "script removed", source: "<script>alert(1)</script>News", want: "news"},
		{name: "non latin dropped", source: "日本 Japan", want: "japan"},
		{name: "unclosed bracket is text", source: "a<b", want: "ab"},
		{name: "unclosed bracket after tag", source: "Fish <i>&amp;</i> Chips <3", want: "fishchips3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.source); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"blog", true},
		{"body2", true},
		{"", false},
		{"Blog", false},
		{"2blog", false},
		{"blog_posts", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestASCII(t *testing.T) {
	if got, want := ASCII("crème brûlée"), "creme brulee"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
