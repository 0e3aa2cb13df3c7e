package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"v 1 2 3", "v 1 2 3"},
		{"v 1 2 3 # trailing", "v 1 2 3 "},
		{"# whole line", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripComment(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeSpaces(t *testing.T) {
	assert.Equal(t, "f 1 2 3", NormalizeSpaces("  f\t1   2 \t 3  "))
	assert.Equal(t, "", NormalizeSpaces(" \t "))
}

func TestCleanLine(t *testing.T) {
	assert.Equal(t, "usemtl red", CleanLine("usemtl    red   # the red one"))
	assert.Equal(t, "", CleanLine("# object Cube"))
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"vt", "0.3", "0.8"}, Fields("vt  0.3\t0.8 # uv"))
	assert.Empty(t, Fields("#"))
}

func TestRest(t *testing.T) {
	assert.Equal(t, "my materials.mtl", Rest("mtllib   my  materials.mtl"))
	assert.Equal(t, "", Rest("usemtl"))
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain", []byte("solid cube"), "solid cube"},
		{"utf8 bom", []byte("\xef\xbb\xbfv 1 2 3"), "v 1 2 3"},
		{"utf16le bom", []byte{0xff, 0xfe, 'o', 0, ' ', 0, 'A', 0}, "o A"},
		{"utf16be bom", []byte{0xfe, 0xff, 0, 'g', 0, ' ', 0, 'B'}, "g B"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeText(tt.data))
		})
	}
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"v 0 0 0", "v 1 0 0", ""}, Lines([]byte("v 0 0 0\r\nv 1 0 0\r\n")))
	assert.Nil(t, Lines(nil))
}
