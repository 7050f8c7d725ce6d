package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/controlfin/internal/encoding"
)

func decode(t *testing.T, input []byte) (string, string) {
	t.Helper()

	r, charset, err := encoding.Decode(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestDecode(t *testing.T) {
	const text = `{"categorias":["Alimentación","Educación"],"descripcion":"Café"}`

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		want        string
		wantCharset string
	}{
		{
			name:        "UTF8",
			input:       []byte(text),
			want:        text,
			wantCharset: encoding.UTF8,
		},
		{
			name:        "UTF8WithBOM",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, text...),
			want:        text,
			wantCharset: encoding.UTF8,
		},
		{
			name:        "UTF16LEWithBOM",
			input:       utf16le,
			want:        text,
			wantCharset: encoding.UTF16LE,
		},
		{
			// "Alimentación" with ó as the single byte 0xF3.
			name:  "Windows1252",
			input: []byte{'"', 'A', 'l', 'i', 'm', 'e', 'n', 't', 'a', 'c', 'i', 0xF3, 'n', '"'},
			want:  `"Alimentación"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, charset := decode(t, tt.input)

			assert.Equal(t, tt.want, got)

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}
		})
	}
}

func TestDecode_RuneCutAtSniffBoundary(t *testing.T) {
	// 4095 ASCII bytes put the two-byte "ó" across the sniffed prefix.
	input := strings.Repeat("a", 4095) + "ó and more"

	got, charset := decode(t, []byte(input))

	assert.Equal(t, encoding.UTF8, charset)
	assert.Equal(t, input, got)
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	r, err := encoding.NewUTF8Reader(bytes.NewReader(nil))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
