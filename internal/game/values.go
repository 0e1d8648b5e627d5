package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// InfiniteSymbol is the sentinel quantity written in game files.
const InfiniteSymbol = "∞"

// Quantity is a tile or token count that may be the "infinite" sentinel.
// The zero value is an unset quantity.
type Quantity struct {
	set      bool
	infinite bool
	n        int
}

// Count returns a finite quantity.
func Count(n int) Quantity { return Quantity{set: true, n: n} }

// Infinite returns the unlimited quantity.
func Infinite() Quantity { return Quantity{set: true, infinite: true} }

// IsSet reports whether the quantity was present.
func (q Quantity) IsSet() bool { return q.set }

// IsInfinite reports whether the quantity is the unlimited sentinel.
func (q Quantity) IsInfinite() bool { return q.infinite }

// N returns the finite count (0 for infinite or unset).
func (q Quantity) N() int { return q.n }

func (q Quantity) String() string {
	switch {
	case !q.set:
		return "unset"
	case q.infinite:
		return InfiniteSymbol
	default:
		return strconv.Itoa(q.n)
	}
}

// UnmarshalJSON accepts an integer, "∞", "infinite", or a numeric string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = Quantity{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case InfiniteSymbol, "infinite", "inf":
			*q = Infinite()
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", s)
		}
		*q = Count(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid quantity %s", data)
	}
	*q = Count(int(f))
	return nil
}

// MarshalJSON writes the game-file form.
func (q Quantity) MarshalJSON() ([]byte, error) {
	switch {
	case !q.set:
		return []byte("null"), nil
	case q.infinite:
		return json.Marshal(InfiniteSymbol)
	default:
		return json.Marshal(q.n)
	}
}

// UnmarshalYAML lets catalog files use the same forms.
func (q *Quantity) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return q.UnmarshalJSON(data)
}

// Rotations is either an explicit count or an explicit list of rotations.
type Rotations struct {
	set   bool
	count *int
	list  []json.RawMessage
}

// RotationCount returns an explicit numeric rotation count.
func RotationCount(n int) Rotations { return Rotations{set: true, count: &n} }

// RotationList returns a rotation list of the given length.
func RotationList(items ...int) Rotations {
	list := make([]json.RawMessage, len(items))
	for i, v := range items {
		list[i] = json.RawMessage(strconv.Itoa(v))
	}
	return Rotations{set: true, list: list}
}

// IsSet reports whether rotations were present.
func (r Rotations) IsSet() bool { return r.set }

// Number returns the explicit numeric count, if any.
func (r Rotations) Number() (int, bool) {
	if r.count == nil {
		return 0, false
	}
	return *r.count, true
}

// List returns the explicit rotation list, if any.
func (r Rotations) List() ([]json.RawMessage, bool) {
	if r.list == nil {
		return nil, false
	}
	return r.list, true
}

// UnmarshalJSON accepts a number or an array.
func (r *Rotations) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Rotations{}
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if list == nil {
			list = []json.RawMessage{}
		}
		*r = Rotations{set: true, list: list}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid rotations %s", data)
	}
	n := int(f)
	*r = Rotations{set: true, count: &n}
	return nil
}

// MarshalJSON writes the game-file form.
func (r Rotations) MarshalJSON() ([]byte, error) {
	switch {
	case r.count != nil:
		return json.Marshal(*r.count)
	case r.list != nil:
		return json.Marshal(r.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalYAML lets catalog files use the same forms.
func (r *Rotations) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return r.UnmarshalJSON(data)
}

// Cells is a JSON array whose elements are kept opaque; only its shape matters
// for layout. Non-array values decode as an empty list.
type Cells []json.RawMessage

// UnmarshalJSON keeps array elements raw.
func (c *Cells) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*c = nil
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*c = list
	return nil
}

// Rows interprets each element as a row (2D market, par grid) and returns the
// rows as cell lists.
func (c Cells) Rows() []Cells {
	rows := make([]Cells, len(c))
	for i, raw := range c {
		var row Cells
		if err := row.UnmarshalJSON(raw); err == nil {
			rows[i] = row
		}
	}
	return rows
}

// TokenCount is a company's token allotment, given either as a list of token
// costs or as a plain integer.
type TokenCount int

// UnmarshalJSON accepts an array (counted) or a number.
func (t *TokenCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = 0
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*t = TokenCount(len(list))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid tokens %s", data)
	}
	*t = TokenCount(int(f))
	return nil
}
