package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// flattenErrorBody turns a non-2xx JSON body into a single user-facing
// message. Reports ok=false when the body is not valid JSON.
//
// Rules, in order:
//   - a JSON string is returned verbatim;
//   - an object with an "error" key yields that value's string form;
//   - any other object is treated as field -> message(s): one
//     "<field>: <m1>, <m2>" line per field, joined by newlines, in the
//     body's own key order.
func flattenErrorBody(b []byte) (msg string, ok bool) {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return "", false
	}

	if raw, found := obj["error"]; found {
		return stringifyRaw(raw), true
	}

	// Walk the object with a token decoder: encoding/json maps lose the
	// key order the server emitted.
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return "", false
	}

	var lines []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		field, isString := tok.(string)
		if !isString {
			return "", false
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return "", false
		}
		lines = append(lines, field+": "+joinMessages(raw))
	}

	return strings.Join(lines, "\n"), true
}

// joinMessages renders a field value: a list becomes its elements joined
// with ", ", anything else its plain string form.
func joinMessages(raw json.RawMessage) string {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, m := range list {
			parts = append(parts, stringifyRaw(m))
		}
		return strings.Join(parts, ", ")
	}
	return stringifyRaw(raw)
}

func stringifyRaw(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	if s, isString := v.(string); isString {
		return s
	}
	return fmt.Sprintf("%v", v)
}
