package serializer

import "testing"

func TestEscapeUnsafeChars(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "plain text", want: "plain text"},
		{in: "</script>", want: `\u003C\u002Fscript\u003E`},
		{in: "a" + string(lineSeparator) + "b", want: `a\u2028b`},
		{in: string(paragraphSeparator), want: `\u2029`},
		{in: `"\"`, want: `"\"`},
	}

	for _, tc := range tests {
		if got := EscapeUnsafeChars(tc.in); got != tc.want {
			t.Errorf("EscapeUnsafeChars(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeUnsafeChar(t *testing.T) {
	if s, ok := EscapeUnsafeChar('>'); !ok || s != `\u003E` {
		t.Errorf("EscapeUnsafeChar('>') = %q, %v", s, ok)
	}
	if _, ok := EscapeUnsafeChar('a'); ok {
		t.Error("'a' should not be escaped")
	}
}
