package transcript_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/transcript"
)

func TestNewReader_UTF8Passthrough(t *testing.T) {
	input := "Facture pour Société Générale\nCafé crème × 2 à 4,50 €\n"

	r, err := transcript.NewReader(strings.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewReader_Windows1252(t *testing.T) {
	// "Descrição de serviço\n" with ç = 0xE7 and ã = 0xE3.
	input := []byte{
		'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ' ',
		'd', 'e', ' ', 's', 'e', 'r', 'v', 'i', 0xE7, 'o', '\n',
	}

	r, err := transcript.NewReader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Descrição de serviço\n", string(got))
}

func TestNewReader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("user: olá\n")...)

	r, err := transcript.NewReader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "user: olá\n", string(got))
}

func TestNewReader_UTF16LEBOM(t *testing.T) {
	// "hi é\n" in UTF-16LE with BOM.
	input := []byte{0xFF, 0xFE, 'h', 0, 'i', 0, ' ', 0, 0xE9, 0, '\n', 0}

	r, err := transcript.NewReader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hi é\n", string(got))
}

func TestNewReader_MultibyteAcrossSniffWindow(t *testing.T) {
	input := strings.Repeat("a", 4095) + "é and more\n"

	r, err := transcript.NewReader(strings.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestTurns(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  []string
	}

	tests := []testCase{
		{
			name:  "PlainLines",
			input: "Bill Globex\n\n  2 hours of design at 50  \n",
			want:  []string{"Bill Globex", "2 hours of design at 50"},
		},
		{
			name: "SpeakerTags",
			input: "Assistant: Hi! Let's create your invoice.\n" +
				"User: Invoice Globex for an audit\n" +
				"AI: What is their email?\n" +
				"you: ap@globex.test\n",
			want: []string{"Invoice Globex for an audit", "ap@globex.test"},
		},
		{
			name:  "EmptyAfterTag",
			input: "user:   \nuser: tax is 10%\n",
			want:  []string{"tax is 10%"},
		},
		{
			name:  "CRLF",
			input: "first\r\nsecond\r\n",
			want:  []string{"first", "second"},
		},
		{
			name:  "Empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transcript.Turns(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
