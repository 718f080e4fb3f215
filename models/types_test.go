package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  StringList
	}{
		{"json array", `["a.jpg","b.jpg"]`, StringList{"a.jpg", "b.jpg"}},
		{"bytes", []byte(`["a.jpg"]`), StringList{"a.jpg"}},
		{"legacy single url", "https://cdn.example.com/a.jpg", StringList{"https://cdn.example.com/a.jpg"}},
		{"legacy json in string", `"[\"a.jpg\",\"b.jpg\"]"`, StringList{"a.jpg", "b.jpg"}},
		{"blank entries dropped", `["a.jpg"," ",""]`, StringList{"a.jpg"}},
		{"null", nil, StringList{}},
		{"empty", "", StringList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			require.NoError(t, got.Scan(tt.value))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad StringList
	assert.Error(t, bad.Scan(`["unterminated`))
	assert.Error(t, bad.Scan(42))
}

func TestStringListValue(t *testing.T) {
	v, err := StringList{"a.jpg", "b.jpg"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a.jpg","b.jpg"]`, v)

	v, err = StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
