package record

import (
	"bytes"
	"encoding/json"
)

// Outcome is the result of diffing a candidate payload against the stored
// version of the same key.
type Outcome int

const (
	// OutcomeNew means nothing usable is stored: the key is absent or its
	// value no longer parses as JSON.
	OutcomeNew Outcome = iota
	// OutcomeChanged means a stored version exists and differs.
	OutcomeChanged
	// OutcomeUnchanged means the stored version is structurally identical.
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNew:
		return "new"
	case OutcomeChanged:
		return "changed"
	default:
		return "unchanged"
	}
}

// Compare diffs a candidate JSON payload against the previously stored one.
//
// Both sides are canonicalized by round-tripping through encoding/json,
// which sorts object keys, so the comparison is insensitive to key ordering
// in either input. It stays sensitive to array ordering and to exact text
// content. A stored value that fails to parse counts as absent, never as an
// error: the caller simply rewrites it.
func Compare(candidate, stored []byte) Outcome {
	if len(stored) == 0 {
		return OutcomeNew
	}
	storedCanon, ok := canonicalize(stored)
	if !ok {
		return OutcomeNew
	}
	candCanon, ok := canonicalize(candidate)
	if !ok {
		// Candidate payloads are produced locally; an unparseable one means
		// the caller handed us garbage. Force a rewrite rather than crash.
		return OutcomeChanged
	}
	if bytes.Equal(candCanon, storedCanon) {
		return OutcomeUnchanged
	}
	return OutcomeChanged
}

// canonicalize reserializes a JSON document with sorted object keys.
func canonicalize(doc []byte) ([]byte, bool) {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, false
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return out, true
}
