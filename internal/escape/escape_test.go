package escape

import "testing"

func TestFormat(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"plain":      {in: "Hello", want: "Hello"},
		"quotes":     {in: `say "hi"`, want: `say ""hi""`},
		"newline":    {in: "line1\nline2", want: `line1\nline2`},
		"crlf":       {in: "a\r\nb", want: `a\nb`},
		"tab":        {in: "a\tb", want: `a\tb`},
		"backslash":  {in: `C:\temp`, want: `C:\\temp`},
		"percent ok": {in: "%d files", want: "%d files"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseReversesFormat(t *testing.T) {
	for _, in := range []string{"Hello", `say "hi"`, "a\tb\nc", `C:\temp\new`} {
		if got := Parse(Format(in)); got != in {
			t.Errorf("Parse(Format(%q)) = %q", in, got)
		}
	}
}
