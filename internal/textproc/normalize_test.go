package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii unchanged", "plain text", "plain text"},
		{"ligature folded", "ﬁle", "file"},
		{"fullwidth folded", "ＡＢＣ", "ABC"},
		{"controls stripped", "a\x00b\x07c", "abc"},
		{"carriage return stripped", "line one\r\nline two", "line one\nline two"},
		{"tabs kept", "a\tb", "a\tb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
