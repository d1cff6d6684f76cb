package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Optional records whether a JSON field was present, explicitly null, or
// carried a value. The zero value means "absent". A value of the wrong JSON
// type sets Invalid instead of failing the whole decode, so validation can
// report it alongside every other violation.
type Optional[T any] struct {
	Set     bool
	Null    bool
	Invalid bool
	Value   T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			o.Invalid = true
			return nil
		}
		return err
	}
	o.Value = v
	return nil
}

// Present reports whether the field carried a non-null value of the right type.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null && !o.Invalid
}

// ProjectInput is the body of a create or update request. Read-only fields
// are decoded only so that their presence can be rejected.
type ProjectInput struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Priority    Optional[int]    `json:"priority"`
	Status      Optional[string] `json:"status"`

	ID        Optional[json.RawMessage] `json:"id"`
	CreatedAt Optional[json.RawMessage] `json:"data_criacao"`
	UpdatedAt Optional[json.RawMessage] `json:"data_atualizacao"`
}
