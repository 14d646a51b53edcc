package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	m := map[string]any{}
	Set(m, 2333, "server", "port")
	Set(m, "secret", "server", "password")

	port, ok := Get(m, "server", "port")
	require.True(t, ok)
	assert.Equal(t, 2333, port)

	_, ok = Get(m, "server", "missing")
	assert.False(t, ok)

	_, ok = Get(m, "server", "port", "deeper")
	assert.False(t, ok)
}

func TestClone_Independent(t *testing.T) {
	original := map[string]any{
		"server": map[string]any{"port": 2333},
		"list":   []any{"a", map[string]any{"k": "v"}},
	}

	clone, ok := Clone(original).(map[string]any)
	require.True(t, ok)
	Set(clone, 9999, "server", "port")
	clone["list"].([]any)[0] = "changed"

	port, _ := Int(original, "server", "port")
	assert.Equal(t, 2333, port)
	assert.Equal(t, "a", original["list"].([]any)[0])
}

func TestString(t *testing.T) {
	m := map[string]any{
		"s": "text",
		"n": 42,
		"b": true,
		"l": []any{},
	}

	s, ok := String(m, "s")
	require.True(t, ok)
	assert.Equal(t, "text", s)

	s, ok = String(m, "n")
	require.True(t, ok)
	assert.Equal(t, "42", s)

	s, ok = String(m, "b")
	require.True(t, ok)
	assert.Equal(t, "true", s)

	_, ok = String(m, "l")
	assert.False(t, ok)
}

func TestInt(t *testing.T) {
	m := map[string]any{
		"plain":  2333,
		"quoted": "2333",
		"bad":    "twenty",
		"list":   []any{},
	}

	n, ok := Int(m, "plain")
	require.True(t, ok)
	assert.Equal(t, 2333, n)

	n, ok = Int(m, "quoted")
	require.True(t, ok)
	assert.Equal(t, 2333, n)

	_, ok = Int(m, "bad")
	assert.False(t, ok)

	_, ok = Int(m, "list")
	assert.False(t, ok)
}

func TestEnsureMap(t *testing.T) {
	m := map[string]any{"existing": map[string]any{"k": "v"}}

	child := EnsureMap(m, "existing")
	assert.Equal(t, "v", child["k"])

	created := EnsureMap(m, "fresh")
	created["x"] = 1
	v, ok := Get(m, "fresh", "x")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestSchemaError_Message(t *testing.T) {
	err := Schemaf("docker-compose.yml", "services must be a mapping")
	assert.Equal(t, "malformed document docker-compose.yml: services must be a mapping", err.Error())
}
