package service

import (
	"encoding/json"
	"strings"
)

// extractObject recovers a single JSON object from free-form model
// output that may carry surrounding prose or markdown fences. It spans
// from the first '{' to the last '}' and parses that substring as one
// object; anything outside the braces is ignored. Returns nil when no
// object can be recovered. No repair is attempted, so a stray brace
// inside the object is a hard nil and the caller decides the fallback.
func extractObject(raw string) map[string]interface{} {
	span, ok := jsonSpan(raw)
	if !ok {
		return nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil
	}
	return obj
}

// extractInto parses the recovered object substring into v. Same
// span rule as extractObject; reports whether parsing succeeded.
func extractInto(raw string, v interface{}) bool {
	span, ok := jsonSpan(raw)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(span), v) == nil
}

func jsonSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}
