package infinitecampus

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// FlexString is a field the portal sends as a json string in one api generation and
// as a json number (or bool) in another. The textual form is kept as is.
type FlexString struct {
	Value string
	Valid bool
}

func NewFlexString(value string) FlexString {
	return FlexString{Value: value, Valid: true}
}

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*f = FlexString{}
		return nil
	}
	if data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*f = FlexString{Value: s, Valid: true}
		return nil
	}
	// numbers and booleans keep their literal json text
	var raw any
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}
	*f = FlexString{Value: string(data), Valid: true}
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil when the field was absent.
func (f FlexString) Ptr() *string {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// FlexFloat is a numeric field that may arrive as a json number or as numeric text
// ("89.76"). Empty or non-numeric text is treated as absent.
type FlexFloat struct {
	Value float64
	Valid bool
}

func NewFlexFloat(value float64) FlexFloat {
	return FlexFloat{Value: value, Valid: true}
}

// ParseFlexFloat parses numeric text, returning an invalid FlexFloat if it isn't numeric.
func ParseFlexFloat(text string) FlexFloat {
	text = strings.TrimSpace(text)
	if text == "" {
		return FlexFloat{}
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return FlexFloat{}
	}
	return FlexFloat{Value: value, Valid: true}
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*f = FlexFloat{}
		return nil
	}
	if data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*f = ParseFlexFloat(s)
		return nil
	}
	var value float64
	err := json.Unmarshal(data, &value)
	if err != nil {
		// booleans and objects in a numeric field mean "no value"
		*f = FlexFloat{}
		return nil
	}
	*f = FlexFloat{Value: value, Valid: true}
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil when the field was absent.
func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Or returns f if it is valid, otherwise fallback.
func (f FlexFloat) Or(fallback FlexFloat) FlexFloat {
	if f.Valid {
		return f
	}
	return fallback
}

// Or returns f if it is valid, otherwise fallback.
func (f FlexString) Or(fallback FlexString) FlexString {
	if f.Valid {
		return f
	}
	return fallback
}

// OneOrMany decodes a json array, or a single object as a one element slice.
// The prism endpoints are converted from xml upstream, so a list with one
// element loses its array brackets.
type OneOrMany[T any] []T

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*o = nil
		return nil
	}
	if data[0] == '[' {
		var list []T
		err := json.Unmarshal(data, &list)
		if err != nil {
			return err
		}
		*o = list
		return nil
	}
	var single T
	err := json.Unmarshal(data, &single)
	if err != nil {
		return err
	}
	*o = []T{single}
	return nil
}
