package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// APIResponse is the {status, message, data} envelope every HMS backend
// endpoint answers with.
type APIResponse[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Flag is a server-supplied status marker whose only meaning on this side
// is whether it is null. The backend is not consistent about the type
// (numbers for ids, strings for CE status), so the raw value is kept.
type Flag struct {
	raw json.RawMessage
}

func NewFlag(v any) Flag {
	b, err := json.Marshal(v)
	if err != nil {
		return Flag{}
	}
	return Flag{raw: b}
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		f.raw = nil
		return nil
	}
	f.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if f.raw == nil {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// Set reports whether the backend supplied a non-null value.
func (f Flag) Set() bool { return f.raw != nil }

// String renders the value without JSON quoting.
func (f Flag) String() string {
	if f.raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(f.raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(f.raw))
}
