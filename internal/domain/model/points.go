package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Points is an optional integer point value as stored on events and members.
// Upstream records may omit the field or carry something that is not a number;
// both decode to an unset value instead of failing.
type Points struct {
	Value int
	Valid bool
}

// PointsOf returns a set Points holding v.
func PointsOf(v int) Points { return Points{Value: v, Valid: true} }

// Int returns the value, or 0 when unset or negative.
func (p Points) Int() int {
	if !p.Valid || p.Value < 0 {
		return 0
	}
	return p.Value
}

// Ptr returns nil for an unset value.
func (p Points) Ptr() *int {
	if !p.Valid {
		return nil
	}
	v := p.Value
	return &v
}

// PointsFromPtr is the inverse of Ptr.
func PointsFromPtr(v *int) Points {
	if v == nil {
		return Points{}
	}
	return PointsOf(*v)
}

// MarshalJSON writes null for unset values.
func (p Points) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(p.Value)), nil
}

// UnmarshalJSON accepts numbers and numeric strings. Anything else leaves the
// value unset and never returns an error.
func (p *Points) UnmarshalJSON(data []byte) error {
	*p = Points{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case json.Number:
		*p = parsePoints(v.String())
	case string:
		*p = parsePoints(strings.TrimSpace(v))
	}
	return nil
}

func parsePoints(s string) Points {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Points{}
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return Points{}
	}
	return PointsOf(int(math.Trunc(f)))
}
