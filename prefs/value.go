// This file is part of gigatron-go.
//
// gigatron-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// gigatron-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with gigatron-go.  If not, see <https://www.gnu.org/licenses/>.

package prefs

import (
	"fmt"
	"strconv"
)

// Value is the type of the argument passed to a Preference's Set() method.
// Concrete values come from two places: direct calls from application code
// (any Go value) and the disk loader, which only ever supplies strings.
type Value = any

// Preference is the interface a value must satisfy to be registered with a
// Disk.
type Preference interface {
	Set(v Value) error
	String() string
}

// Bool is a boolean preference value. Setting it from a string that doesn't
// parse as a bool is not an error; the value is simply false.
type Bool bool

func (b *Bool) Set(v Value) error {
	switch t := v.(type) {
	case bool:
		*b = Bool(t)
		return nil
	case string:
		pb, _ := strconv.ParseBool(t)
		*b = Bool(pb)
		return nil
	}
	return fmt.Errorf("prefs: cannot set bool preference from %T", v)
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

// Int is an integer preference value.
type Int int

func (i *Int) Set(v Value) error {
	switch t := v.(type) {
	case int:
		*i = Int(t)
		return nil
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return fmt.Errorf("prefs: cannot set int preference from %q: %w", t, err)
		}
		*i = Int(n)
		return nil
	}
	return fmt.Errorf("prefs: cannot set int preference from %T", v)
}

func (i Int) String() string {
	return strconv.Itoa(int(i))
}

// Float is a floating point preference value.
type Float float64

func (f *Float) Set(v Value) error {
	switch t := v.(type) {
	case float64:
		*f = Float(t)
		return nil
	case float32:
		*f = Float(float64(t))
		return nil
	case string:
		n, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return fmt.Errorf("prefs: cannot set float preference from %q: %w", t, err)
		}
		*f = Float(n)
		return nil
	}
	return fmt.Errorf("prefs: cannot set float preference from %T", v)
}

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}

// String is a string preference value, optionally truncated to a maximum
// length.
type String struct {
	value  string
	maxLen int
}

func (s *String) Set(v Value) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("prefs: cannot set string preference from %T", v)
	}
	s.value = str
	s.crop()
	return nil
}

// SetMaxLen caps the string at n bytes, cropping the current value
// immediately. A value of zero removes the cap for future Set() calls but
// does not restore a value already cropped.
func (s *String) SetMaxLen(n int) {
	s.maxLen = n
	s.crop()
}

func (s *String) crop() {
	if s.maxLen > 0 && len(s.value) > s.maxLen {
		s.value = s.value[:s.maxLen]
	}
}

func (s *String) String() string {
	return s.value
}

// Generic wraps an arbitrary setter/getter pair, for preference values that
// don't fit the Bool/Int/Float/String shapes (window geometry, CSV lists).
type Generic struct {
	setter func(Value) error
	getter func() Value
}

// NewGeneric is the preferred method of initialisation for the Generic type.
func NewGeneric(setter func(Value) error, getter func() Value) *Generic {
	return &Generic{setter: setter, getter: getter}
}

func (g *Generic) Set(v Value) error {
	return g.setter(v)
}

func (g *Generic) String() string {
	return fmt.Sprintf("%v", g.getter())
}
