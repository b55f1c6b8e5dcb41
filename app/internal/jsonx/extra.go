// Package jsonx keeps JSON object members a struct does not declare, so a
// decoded value can be written back without losing them.
package jsonx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Split decodes data into dst and returns the members of the object whose
// keys are not listed in known. It returns nil when there are none.
func Split(data []byte, dst any, known ...string) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// Merge encodes src, which must encode as a JSON object, and appends the
// extra members in key order.
func Merge(src any, extra map[string]json.RawMessage) ([]byte, error) {
	base, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}
	if len(base) < 2 || base[0] != '{' || base[len(base)-1] != '}' {
		return nil, fmt.Errorf("merge extra members: %T does not encode as an object", src)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, k := range keys {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if err := json.Compact(&buf, extra[k]); err != nil {
			return nil, fmt.Errorf("merge extra member %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
