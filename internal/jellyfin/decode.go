package jellyfin

import (
	"bytes"
	"encoding/json"
)

// decodeContext reads one JSON object field by field. Essential fields go
// through required and fail the object; everything else goes through
// optional, which substitutes a default and records the problem in errs.
type decodeContext struct {
	object string
	fields map[string]json.RawMessage
	errs   *[]error
}

// newDecodeContext opens raw as an object named object. Problems recorded by
// optional are appended to errs.
func newDecodeContext(object string, raw json.RawMessage, errs *[]error) (*decodeContext, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &FieldError{Object: object, Problem: TypeMismatch, Err: err}
	}
	if fields == nil {
		return nil, &FieldError{Object: object, Problem: MissingObject}
	}
	if errs == nil {
		errs = new([]error)
	}
	return &decodeContext{object: object, fields: fields, errs: errs}, nil
}

// present reports whether key exists with a non-null value.
func (d *decodeContext) present(key string) bool {
	raw, ok := d.fields[key]
	return ok && !isNull(raw)
}

// nested opens the object stored under key.
func (d *decodeContext) nested(key, object string) (*decodeContext, error) {
	raw, ok := d.fields[key]
	if !ok || isNull(raw) {
		return nil, &FieldError{Object: d.object, Key: key, Problem: MissingObject}
	}
	nd, err := newDecodeContext(object, raw, d.errs)
	if err != nil {
		return nil, &FieldError{Object: d.object, Key: key, Problem: TypeMismatch, Err: err}
	}
	return nd, nil
}

// record appends a non-fatal problem.
func (d *decodeContext) record(err error) {
	*d.errs = append(*d.errs, err)
}

func required[T any](d *decodeContext, key string) (T, error) {
	var v T
	raw, ok := d.fields[key]
	if !ok || isNull(raw) {
		return v, &FieldError{Object: d.object, Key: key, Problem: MissingKey}
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &FieldError{Object: d.object, Key: key, Problem: TypeMismatch, Err: err}
	}
	return v, nil
}

// optional returns def when key is absent or null. A value of the wrong type
// also yields def and is recorded.
func optional[T any](d *decodeContext, key string, def T) T {
	raw, ok := d.fields[key]
	if !ok || isNull(raw) {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		d.record(&FieldError{Object: d.object, Key: key, Problem: TypeMismatch, Err: err})
		return def
	}
	return v
}

// optionalPtr is optional for fields whose absence must stay distinguishable.
func optionalPtr[T any](d *decodeContext, key string) *T {
	raw, ok := d.fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		d.record(&FieldError{Object: d.object, Key: key, Problem: TypeMismatch, Err: err})
		return nil
	}
	return v
}

// rawList returns the elements of the array under key, or nil.
func rawList(d *decodeContext, key string) []json.RawMessage {
	return optional[[]json.RawMessage](d, key, nil)
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
