package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/encoding"
)

func TestDetect(t *testing.T) {
	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset string
	}

	tests := []testCase{
		{
			name:        "UTF8Passthrough",
			input:       []byte("date,description,amount\n2024-01-02,Café central,-3.50\n"),
			want:        "date,description,amount\n2024-01-02,Café central,-3.50\n",
			wantCharset: encoding.CharsetUTF8,
		},
		{
			name:        "UTF8BOM",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte("Descrição;Montante\n")...),
			want:        "Descrição;Montante\n",
			wantCharset: encoding.CharsetUTF8,
		},
		{
			name: "UTF16LEBOM",
			// "ab\n" in UTF-16LE with BOM.
			input:       []byte{0xFF, 0xFE, 'a', 0x00, 'b', 0x00, '\n', 0x00},
			want:        "ab\n",
			wantCharset: encoding.CharsetUTF16LE,
		},
		{
			name: "Windows1252",
			// ç = 0xE7, ã = 0xE3
			input: []byte{
				'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
				'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n',
			},
			want: "Descrição;Montante\n",
		},
		{
			name:        "Empty",
			input:       nil,
			want:        "",
			wantCharset: encoding.CharsetUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := encoding.Detect(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, d.Charset)
			}
		})
	}
}

func TestDetect_RuneSplitAtSniffBoundary(t *testing.T) {
	// 4095 ASCII bytes followed by "ç" puts the two-byte rune across the 4096 window.
	input := strings.Repeat("a", 4095) + "ç tail"

	d, err := encoding.Detect(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.CharsetUTF8, d.Charset)

	got, err := io.ReadAll(d)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}
