package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/chathub/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		absent string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain text", input: "Hello, World!", want: "Hello, World!"},
		{name: "safe markup", input: "<strong>Bold</strong> and <em>italic</em>", want: "<strong>Bold</strong> and <em>italic</em>"},
		{name: "script", input: "hi<script>alert('xss')</script>", want: "hi"},
		{name: "onclick", input: `<b onclick="alert(1)">x</b>`, absent: "onclick"},
		{name: "javascript href", input: `<a href="javascript:alert(1)">x</a>`, absent: "javascript:"},
		{name: "iframe", input: `<iframe src="https://evil.example"></iframe>ok`, absent: "iframe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.Sanitize(tt.input)
			if tt.absent != "" {
				if strings.Contains(got, tt.absent) {
					t.Errorf("expected %q removed, got %q", tt.absent, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitize_SafeLinkGetsNofollow(t *testing.T) {
	got := htmlsanitize.Sanitize(`<a href="https://example.com">Link</a>`)
	if !strings.Contains(got, "https://example.com") || !strings.Contains(got, "nofollow") {
		t.Errorf("got %q", got)
	}
}

func TestPlainText(t *testing.T) {
	if got := htmlsanitize.PlainText("  <b>Team</b> <i>Room</i> "); got != "Team Room" {
		t.Errorf("got %q", got)
	}
	if got := htmlsanitize.PlainText("<script>x()</script>Lobby"); got != "Lobby" {
		t.Errorf("got %q", got)
	}
}

func TestPlainText_KeepsEntitiesAsText(t *testing.T) {
	tests := []struct{ input, want string }{
		{"Tom & Jerry", "Tom & Jerry"},
		{`<b>"Quotes"</b> & 'apostrophes'`, `"Quotes" & 'apostrophes'`},
		{"a < b", "a < b"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PlainText(tt.input); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
