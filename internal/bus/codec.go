package bus

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sensor readings and derived metrics travel as {"value": x} objects; the
// faucet command is a bare "1"/"0" string. Both shapes predate this
// implementation and must stay byte-compatible with existing subscribers.

type valuePayload struct {
	Value float64 `json:"value"`
}

type intPayload struct {
	Value int `json:"value"`
}

// Trunc1 truncates v to one decimal place. Applied on publish only; internal
// state keeps full precision to avoid compounding rounding error.
func Trunc1(v float64) float64 {
	// The epsilon keeps values that are exactly representable at one decimal
	// (13.3 -> 132.999...97 internally) from truncating a digit low.
	if v >= 0 {
		return math.Trunc(v*10+1e-9) / 10
	}
	return math.Trunc(v*10-1e-9) / 10
}

// EncodeValue marshals a float reading, truncated to one decimal.
func EncodeValue(v float64) []byte {
	b, _ := json.Marshal(valuePayload{Value: Trunc1(v)})
	return b
}

// EncodeIntValue marshals an integer metric such as health or the watering flag.
func EncodeIntValue(v int) []byte {
	b, _ := json.Marshal(intPayload{Value: v})
	return b
}

// DecodeValue parses a {"value": x} payload.
func DecodeValue(p []byte) (float64, error) {
	var v valuePayload
	if err := json.Unmarshal(p, &v); err != nil {
		return 0, fmt.Errorf("bad value payload %q: %w", p, err)
	}
	return v.Value, nil
}

// Faucet command wire values.
const (
	CommandOpen  = "1"
	CommandClose = "0"
)

// EncodeCommand produces the bare-string faucet command.
func EncodeCommand(open bool) []byte {
	if open {
		return []byte(CommandOpen)
	}
	return []byte(CommandClose)
}

// DecodeCommand accepts the canonical bare string plus the legacy forms older
// controllers emitted: a JSON integer, a JSON-quoted integer, and a
// {"command": n} object. Only the value 1 opens the valve.
func DecodeCommand(p []byte) (bool, error) {
	var obj struct {
		Command *int `json:"command"`
	}
	if err := json.Unmarshal(p, &obj); err == nil && obj.Command != nil {
		return *obj.Command == 1, nil
	}
	var n int
	if err := json.Unmarshal(p, &n); err == nil {
		return n == 1, nil
	}
	var s string
	if err := json.Unmarshal(p, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i == 1, nil
		}
	}
	if i, err := strconv.Atoi(strings.TrimSpace(string(p))); err == nil {
		return i == 1, nil
	}
	return false, fmt.Errorf("bad faucet command %q", p)
}
