package jellyfin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/errchain"
)

func TestDecodeContext(t *testing.T) {
	var errs []error
	d, err := newDecodeContext("thing", json.RawMessage(`{
		"name": "x",
		"count": "seven",
		"nothing": null,
		"inner": {"value": 3}
	}`), &errs)
	require.NoError(t, err)

	name, err := required[string](d, "name")
	require.NoError(t, err)
	assert.Equal(t, "x", name)

	_, err = required[string](d, "missing")
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, MissingKey, fieldErr.Problem)
	assert.Equal(t, `thing: missing key "missing"`, errchain.Describe(err))

	_, err = required[int](d, "count")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, TypeMismatch, fieldErr.Problem)

	_, err = required[string](d, "nothing")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, MissingKey, fieldErr.Problem)

	assert.Equal(t, 5, optional(d, "count", 5))
	assert.Equal(t, 9, optional(d, "absent", 9))
	assert.Nil(t, optionalPtr[int](d, "absent"))
	require.Len(t, errs, 1, "only the type mismatch is recorded")

	inner, err := d.nested("inner", "inner thing")
	require.NoError(t, err)
	assert.Equal(t, 3, optional(inner, "value", 0))

	_, err = d.nested("nothing", "void")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, MissingObject, fieldErr.Problem)
	assert.Equal(t, "nothing", fieldErr.Key)

	_, err = d.nested("count", "counter")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, TypeMismatch, fieldErr.Problem)
	assert.Equal(t, "count", fieldErr.Key)
}

func TestNewDecodeContext_RejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`[]`, `"text"`, `null`} {
		_, err := newDecodeContext("thing", json.RawMessage(raw), nil)
		assert.Error(t, err, raw)
	}
}
