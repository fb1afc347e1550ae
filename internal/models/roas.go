package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// InfinityLiteral is the text form of an undefined ROAS in exports and JSON.
const InfinityLiteral = "Infinity"

// ROAS is revenue over payout. A zero or missing payout yields the infinite
// sentinel, never zero and never NaN.
type ROAS float64

// InfiniteROAS is the sentinel for an undefined ratio.
var InfiniteROAS = ROAS(math.Inf(1))

// NewROAS divides revenue by payout; any non-positive payout gives the
// sentinel, including 0/0.
func NewROAS(revenue, payout float64) ROAS {
	if payout <= 0 {
		return InfiniteROAS
	}
	return ROAS(revenue / payout)
}

func (r ROAS) IsInfinite() bool { return math.IsInf(float64(r), 0) || math.IsNaN(float64(r)) }

func (r ROAS) Float64() float64 { return float64(r) }

// String formats finite values with the shortest exact representation.
func (r ROAS) String() string {
	if r.IsInfinite() {
		return InfinityLiteral
	}
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

// ParseROAS accepts a decimal or the Infinity literal.
func ParseROAS(s string) (ROAS, error) {
	if s == InfinityLiteral || s == "inf" || s == "+Inf" {
		return InfiniteROAS, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse roas %q: %w", s, err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return InfiniteROAS, nil
	}
	return ROAS(f), nil
}

func (r ROAS) MarshalJSON() ([]byte, error) {
	if r.IsInfinite() {
		return json.Marshal(InfinityLiteral)
	}
	return json.Marshal(float64(r))
}

func (r *ROAS) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := ParseROAS(s)
		if err != nil {
			return err
		}
		*r = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = ROAS(f)
	return nil
}
