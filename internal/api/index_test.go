package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name      string
		tmpl      string
		wantCodes []string
		wantGroup bool
	}{
		{"single series", "TP.DK.USD.A", []string{"TP.DK.USD.A"}, false},
		{"two series", "TP.DK.USD.A-TP.DK.EUR.A", []string{"TP.DK.USD.A", "TP.DK.EUR.A"}, false},
		{"line breaks", "TP.DK.USD.A\nTP.DK.EUR.A\r\n", []string{"TP.DK.USD.A", "TP.DK.EUR.A"}, false},
		{"empty parts dropped", "TP.A--TP.B-", []string{"TP.A", "TP.B"}, false},
		{"data group", "bie_yssk", []string{"bie_yssk"}, true},
		{"data group kept whole", "bie_a-b", []string{"bie_a-b"}, true},
		{"empty", "  ", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := ParseIndex(tt.tmpl)
			assert.Equal(t, tt.wantCodes, idx.Codes())
			assert.Equal(t, tt.wantGroup, idx.IsDataGroup())
		})
	}
}

func TestIndexString(t *testing.T) {
	idx := NewIndex("TP.A", "TP.B")
	assert.Equal(t, "TP.A-TP.B", idx.String())
	assert.False(t, idx.IsEmpty())
	assert.True(t, NewIndex().IsEmpty())
}

func TestIndexCodesIsCopy(t *testing.T) {
	idx := NewIndex("TP.A")
	codes := idx.Codes()
	codes[0] = "changed"
	assert.Equal(t, "TP.A", idx.String())
}

func TestParseIndexesFromArgument(t *testing.T) {
	got, err := ParseIndexes("TP.A-TP.B, bie_yssk ,,TP.C")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "TP.A-TP.B", got[0].String())
	assert.True(t, got[1].IsDataGroup())
	assert.Equal(t, "TP.C", got[2].String())
}

func TestParseIndexesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indexes.txt")
	content := "# exchange rates\nTP.DK.USD.A-TP.DK.EUR.A\n\nbie_yssk\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := ParseIndexes(path + ",TP.C")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "TP.DK.USD.A-TP.DK.EUR.A", got[0].String())
	assert.Equal(t, "bie_yssk", got[1].String())
	assert.Equal(t, "TP.C", got[2].String())
}

func TestParseIndexesMissingFile(t *testing.T) {
	_, err := ParseIndexes(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLooksLikeFilename(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "codes")
	require.NoError(t, os.WriteFile(existing, []byte("TP.A"), 0644))

	assert.True(t, LooksLikeFilename("codes.txt"))
	assert.True(t, LooksLikeFilename("codes.CSV"))
	assert.True(t, LooksLikeFilename(existing))
	assert.False(t, LooksLikeFilename("TP.DK.USD.A"))
	assert.False(t, LooksLikeFilename(filepath.Dir(existing)))
}
