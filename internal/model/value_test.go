package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueUnmarshalJSON(t *testing.T) {
	payload := `{
		"id": "msg-1",
		"size": 2048,
		"from_address": {"email": "a@b.com", "name": "Sender"},
		"starred": true,
		"labels": ["inbox", "work"],
		"thread": null
	}`

	var rec Value
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))

	fields, ok := rec.AsMap()
	require.True(t, ok)

	id, ok := fields["id"].AsString()
	assert.True(t, ok)
	assert.Equal(t, "msg-1", id)

	size, ok := fields["size"].AsNumber()
	assert.True(t, ok)
	assert.Equal(t, float64(2048), size)

	email, ok := fields["from_address"].Get("email").AsString()
	assert.True(t, ok)
	assert.Equal(t, "a@b.com", email)

	// Types outside the sum decode as absent, not as errors.
	assert.True(t, fields["starred"].IsAbsent())
	assert.True(t, fields["labels"].IsAbsent())
	assert.True(t, fields["thread"].IsAbsent())

	// Missing keys read as absent too.
	assert.True(t, fields["subject"].IsAbsent())
}

func TestValueUnmarshalNonObject(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`"just a string"`), &v))

	_, isMap := v.AsMap()
	assert.False(t, isMap)

	s, isString := v.AsString()
	assert.True(t, isString)
	assert.Equal(t, "just a string", s)
}

func TestValueMarshalRoundTrip(t *testing.T) {
	original := Map(map[string]Value{
		"id":   String("msg-9"),
		"size": Number(17.5),
		"from": Map(map[string]Value{"email": String("x@y.io")}),
	})

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Value
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestValueGetOnNonMap(t *testing.T) {
	assert.True(t, String("x").Get("id").IsAbsent())
	assert.True(t, Number(1).Get("id").IsAbsent())
	assert.True(t, Absent().Get("id").IsAbsent())
}

func TestValueRaw(t *testing.T) {
	assert.Equal(t, "hello", String("hello").Raw())
	assert.Equal(t, "42", Number(42).Raw())
	assert.Equal(t, "3.5", Number(3.5).Raw())
	assert.Equal(t, "<absent>", Absent().Raw())
	assert.Equal(t, "map[a b]", Map(map[string]Value{"b": Number(1), "a": Number(2)}).Raw())
}
