package labels_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labeler/internal/labels"
)

func TestValueJSONEncoding(t *testing.T) {
	tests := []struct {
		value labels.Value
		want  string
	}{
		{labels.Text("cat"), `"cat"`},
		{labels.Int(3), `3`},
		{labels.Float(0.5), `0.5`},
		{labels.Float(3), `3.0`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data))
	}
}

func TestValueJSONDecoding(t *testing.T) {
	var v labels.Value
	require.NoError(t, json.Unmarshal([]byte(`"dog"`), &v))
	assert.Equal(t, labels.ValueText, v.Kind())

	require.NoError(t, json.Unmarshal([]byte(`7`), &v))
	assert.True(t, v.Equal(labels.Int(7)))

	require.NoError(t, json.Unmarshal([]byte(`2.0`), &v))
	assert.True(t, v.Equal(labels.Float(2)))

	require.NoError(t, json.Unmarshal([]byte(`-1e3`), &v))
	assert.True(t, v.Equal(labels.Float(-1000)))

	for _, bad := range []string{`true`, `null`, `{"a":1}`, `[1]`} {
		assert.Error(t, json.Unmarshal([]byte(bad), &v), "input %s", bad)
	}
}

func TestValueStringKeepsNumericForm(t *testing.T) {
	assert.Equal(t, "3", labels.Int(3).String())
	assert.Equal(t, "3.0", labels.Float(3).String())
	assert.Equal(t, "0.25", labels.Float(0.25).String())
	assert.Equal(t, "cat", labels.Text("cat").String())
	assert.False(t, labels.Int(3).Equal(labels.Float(3)))
}
