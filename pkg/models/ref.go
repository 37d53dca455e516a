package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref points at another record by ID and optionally carries the resolved
// record. It serializes as the bare ID until resolved, then as the record.
type Ref[T any] struct {
	ID    string
	Value *T
}

// NewRef returns an unresolved reference
func NewRef[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// Resolved reports whether the referenced record is attached
func (r Ref[T]) Resolved() bool {
	return r.Value != nil
}

// Resolve attaches the referenced record
func (r *Ref[T]) Resolve(v *T) {
	r.Value = v
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts either an ID string or an embedded record with an "_id" key.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		r.Value = nil
		return json.Unmarshal(data, &r.ID)
	}
	if bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}

	var probe struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("reference must be an id or an object: %w", err)
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	r.ID = probe.ID
	r.Value = v
	return nil
}

// AccountRef is a campaign's reference to its Instagram account
type AccountRef = Ref[InstagramAccount]

// LeadRef is a message's reference to its lead
type LeadRef = Ref[Lead]
