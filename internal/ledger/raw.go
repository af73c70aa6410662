// Package ledger turns raw league export JSON into the normalized history
// model. Platforms spell the same fields several ways and often encode
// numbers as strings; all of that is resolved here, once, so the analytics
// packages only ever see canonical owner and roster ids.
package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// record is one decoded JSON object.
type record map[string]any

// decodeRecords accepts either an array of objects or an object of objects.
// For the latter the map key is exposed as "_key", and records are returned
// in key order.
func decodeRecords(body []byte) ([]record, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	if body[0] == '[' {
		var items []any
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("decode array: %w", err)
		}
		out := make([]record, 0, len(items))
		for _, it := range items {
			if m, ok := it.(map[string]any); ok {
				out = append(out, record(m))
			}
		}
		return out, nil
	}

	var byKey map[string]any
	if err := dec.Decode(&byKey); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]record, 0, len(keys))
	for _, k := range keys {
		m, ok := byKey[k].(map[string]any)
		if !ok {
			continue
		}
		m["_key"] = k
		out = append(out, record(m))
	}
	return out, nil
}

// get returns the first present value among the keys. A key may be a dotted
// path into nested objects ("metadata.owner_id").
func (r record) get(keys ...string) (any, bool) {
	for _, k := range keys {
		var cur any = map[string]any(r)
		found := true
		for _, part := range strings.Split(k, ".") {
			m, ok := cur.(map[string]any)
			if !ok {
				found = false
				break
			}
			cur, ok = m[part]
			if !ok || cur == nil {
				found = false
				break
			}
		}
		if found {
			return cur, true
		}
	}
	return nil, false
}

func (r record) str(keys ...string) string {
	v, ok := r.get(keys...)
	if !ok {
		return ""
	}
	return asString(v)
}

// id is like str but skips empty and "0" values, which platforms use for
// "no owner".
func (r record) id(keys ...string) string {
	for _, k := range keys {
		s := strings.TrimSpace(r.str(k))
		if s != "" && s != "0" {
			return s
		}
	}
	return ""
}

func (r record) num(keys ...string) float64 {
	v, ok := r.get(keys...)
	if !ok {
		return 0
	}
	return asNumber(v)
}

func (r record) integer(keys ...string) int {
	return int(math.Round(r.num(keys...)))
}

func (r record) boolean(keys ...string) bool {
	v, ok := r.get(keys...)
	if !ok {
		return false
	}
	return asBool(v)
}

func (r record) has(keys ...string) bool {
	_, ok := r.get(keys...)
	return ok
}

// asNumber coerces JSON numbers and numeric strings; anything else, and
// non-finite results, are 0.
func asNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case json.Number:
		f, _ = t.Float64()
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(t), 64)
	case bool:
		if t {
			f = 1
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	default:
		return asNumber(v) != 0
	}
}
