package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NoResponseText is shown when the service answers with an unknown shape and no placeholder.
const NoResponseText = "No response received"

// Kind tags which response shape produced a Result.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindUnrecognized
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "unrecognized"
	}
}

// Result is the interpreted service response.
type Result struct {
	Kind        Kind
	Verdict     string
	Explanation string
	// Message is set for KindError.
	Message string
	// Raw is the fallback text for KindUnrecognized.
	Raw string
}

// Answer is the single-line text shown when no verdict is rendered on its own.
func (r Result) Answer() string {
	switch r.Kind {
	case KindSuccess:
		if r.Explanation == "" {
			return r.Verdict
		}
		return fmt.Sprintf("%s: %s", r.Verdict, r.Explanation)
	case KindError:
		return r.Message
	default:
		return r.Raw
	}
}

type responseEnvelope struct {
	Success     json.RawMessage `json:"Success"`
	Error       json.RawMessage `json:"Error"`
	Placeholder json.RawMessage `json:"placeholder"`
}

type successPayload struct {
	Verdict     string `json:"Verdict"`
	Explanation string `json:"Explanation"`
}

// ParseResponse maps a 2xx response body onto a Result. Only a body that is not a
// JSON object fails; unknown shapes degrade to KindUnrecognized.
func ParseResponse(body []byte) (Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Result{}, fmt.Errorf("decode classify response: expected a JSON object")
	}
	var envelope responseEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return Result{}, fmt.Errorf("decode classify response: %w", err)
	}
	if result, ok := parseSuccess(envelope.Success); ok {
		return result, nil
	}
	if message, ok := nonEmptyString(envelope.Error); ok {
		return Result{Kind: KindError, Message: message}, nil
	}
	raw, ok := nonEmptyString(envelope.Placeholder)
	if !ok {
		raw = NoResponseText
	}
	return Result{Kind: KindUnrecognized, Raw: raw}, nil
}

func parseSuccess(raw json.RawMessage) (Result, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return Result{}, false
	}
	// Older service builds answer with the bare label.
	if verdict, ok := nonEmptyString(raw); ok {
		return Result{Kind: KindSuccess, Verdict: verdict}, true
	}
	var payload successPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{}, false
	}
	if strings.TrimSpace(payload.Verdict) == "" && strings.TrimSpace(payload.Explanation) == "" {
		return Result{}, false
	}
	return Result{Kind: KindSuccess, Verdict: payload.Verdict, Explanation: payload.Explanation}, true
}

func nonEmptyString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil || value == "" {
		return "", false
	}
	return value, true
}
