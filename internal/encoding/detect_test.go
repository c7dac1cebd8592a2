package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/likexephinh-dev/ThuChiPro/internal/encoding"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	const doc = `{"name":"Tiền điện"}`

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(doc))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{name: "UTF8Passthrough", input: []byte(doc), want: doc},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, doc...), want: doc},
		{name: "UTF16LEWithBOM", input: utf16le, want: doc},
		{name: "Empty", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.input))
		})
	}
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// "Café" in Windows-1252.
	input, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Café;12,50\n"))
	require.NoError(t, err)

	assert.Equal(t, "Café;12,50\n", readAll(t, input))
}

func TestNewUTF8Reader_LongUTF8(t *testing.T) {
	// Multi-byte runes straddle the sniffing window.
	doc := strings.Repeat("Mua sắm ", 1000)

	assert.Equal(t, doc, readAll(t, []byte(doc)))
}
