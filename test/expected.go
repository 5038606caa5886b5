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

// Package test provides small, dependency-free assertion helpers used
// throughout this module's test suites, in place of a third-party assertion
// library.
package test

import (
	"math"
	"reflect"
	"testing"
)

// ExpectSuccess fails t if v indicates failure. v may be a bool (false means
// failure), an error (non-nil means failure), or nil (always success).
func ExpectSuccess(t *testing.T, v any) {
	t.Helper()

	switch vv := v.(type) {
	case nil:
		return
	case bool:
		if !vv {
			t.Errorf("expected success, got failure")
		}
	case error:
		if vv != nil {
			t.Errorf("expected success, got error: %v", vv)
		}
	default:
		t.Errorf("expected success: unsupported value type %T", v)
	}
}

// ExpectFailure fails t if v indicates success. v may be a bool (true means
// success) or an error (nil means success).
func ExpectFailure(t *testing.T, v any) {
	t.Helper()

	switch vv := v.(type) {
	case bool:
		if vv {
			t.Errorf("expected failure, got success")
		}
	case error:
		if vv == nil {
			t.Errorf("expected failure, got success")
		}
	default:
		t.Errorf("expected failure: unsupported value type %T", v)
	}
}

// ExpectEquality fails t if got and want are not deeply equal.
func ExpectEquality(t *testing.T, got any, want any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected equality: got %v, want %v", got, want)
	}
}

// ExpectInequality fails t if got and want are deeply equal.
func ExpectInequality(t *testing.T, got any, want any) {
	t.Helper()
	if reflect.DeepEqual(got, want) {
		t.Errorf("expected inequality: got %v, want something other than %v", got, want)
	}
}

// ExpectApproximate fails t if got and want (both converted to float64) are
// further apart than tolerance.
func ExpectApproximate(t *testing.T, got any, want any, tolerance float64) {
	t.Helper()

	g := toFloat(got)
	w := toFloat(want)
	if math.Abs(g-w) > tolerance {
		t.Errorf("expected approximate equality: got %v, want %v (tolerance %v)", got, want, tolerance)
	}
}

func toFloat(v any) float64 {
	switch vv := v.(type) {
	case float64:
		return vv
	case float32:
		return float64(vv)
	case int:
		return float64(vv)
	case int64:
		return float64(vv)
	case uint64:
		return float64(vv)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			return rv.Float()
		}
	}
	return 0
}

// Equate is a legacy alias for ExpectEquality, kept for older call sites that
// expect a terser name.
func Equate(t *testing.T, got any, want any) {
	t.Helper()
	ExpectEquality(t, got, want)
}
