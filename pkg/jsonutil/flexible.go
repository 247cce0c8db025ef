// Package jsonutil provides tolerant JSON decoding helpers for
// model-generated payloads.
package jsonutil

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexibleInt is an int that tolerates the value shapes vision models
// actually produce for numeric fields: integers, floats (truncated),
// numeric strings ("87" or "87.5"), and null/absent (zero).
type FlexibleInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleInt) UnmarshalJSON(raw []byte) error {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	// Try integer first
	var intVal int
	if err := json.Unmarshal(raw, &intVal); err == nil {
		*f = FlexibleInt(intVal)
		return nil
	}

	// Try float, truncating toward zero
	var floatVal float64
	if err := json.Unmarshal(raw, &floatVal); err == nil {
		*f = FlexibleInt(int(floatVal))
		return nil
	}

	// Try quoted number
	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		strVal = strings.TrimSpace(strVal)
		if n, err := strconv.Atoi(strVal); err == nil {
			*f = FlexibleInt(n)
			return nil
		}
		if fl, err := strconv.ParseFloat(strVal, 64); err == nil {
			*f = FlexibleInt(int(fl))
			return nil
		}
	}

	// Anything else (booleans, objects) degrades to zero rather than
	// failing the whole result parse.
	*f = 0
	return nil
}

// Int returns the value as a plain int.
func (f FlexibleInt) Int() int {
	return int(f)
}
