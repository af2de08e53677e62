package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_NullHandling(t *testing.T) {
	var p Planner
	require.NoError(t, json.Unmarshal([]byte(`{"title":"T","content":null}`), &p))
	assert.True(t, p.Content.IsNull())

	v, err := p.Content.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"content":null`)
}

func TestContent_PreservesDocument(t *testing.T) {
	var p Planner
	require.NoError(t, json.Unmarshal([]byte(`{"content":{"store":{"a":1}}}`), &p))

	v, err := p.Content.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"store":{"a":1}}`, v.(string))

	var scanned Content
	require.NoError(t, scanned.Scan([]byte(`{"store":{"b":2}}`)))
	assert.JSONEq(t, `{"store":{"b":2}}`, string(scanned))
}

func TestContent_ScanRejectsUnknownType(t *testing.T) {
	var c Content
	assert.Error(t, c.Scan(42))
}
