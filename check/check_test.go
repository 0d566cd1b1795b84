// SPDX-License-Identifier: Apache-2.0

package check

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNotNil(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{name: "Value", value: 42, wantErr: false},
		{name: "NonNilPointer", value: new(int), wantErr: false},
		{name: "Nil", value: nil, wantErr: true},
		{name: "TypedNilPointer", value: (*int)(nil), wantErr: true},
		{name: "NilSlice", value: []string(nil), wantErr: true},
		{name: "NilMap", value: map[string]int(nil), wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := NotNil(tc.value, "value must not be nil")
			if got := err != nil; got != tc.wantErr {
				t.Errorf("NotNil(%v) error = %v, wantErr %v", tc.value, err, tc.wantErr)
			}
		})
	}
}

func TestNotEmpty(t *testing.T) {
	t.Parallel()
	if err := NotEmpty("x", "must not be empty"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := NotEmpty("", "must not be empty")
	if err == nil {
		t.Fatal("expected error for empty string")
	}
	if err.Error() != "must not be empty" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestNotEmptySlice(t *testing.T) {
	t.Parallel()
	if err := NotEmptySlice([]int{1}, "needs elements"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := NotEmptySlice([]int{}, "needs elements"); err == nil {
		t.Error("expected error for empty slice")
	}
	if err := NotEmptySlice([]int(nil), "needs elements"); err == nil {
		t.Error("expected error for nil slice")
	}
}

func TestComparisons(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "GreaterThanHolds", err: GreaterThan(2, 1, "m"), wantErr: false},
		{name: "GreaterThanEqual", err: GreaterThan(1, 1, "m"), wantErr: true},
		{name: "GreaterThanBelow", err: GreaterThan(0, 1, "m"), wantErr: true},
		{name: "GreaterOrEqualHolds", err: GreaterOrEqual(1, 1, "m"), wantErr: false},
		{name: "GreaterOrEqualBelow", err: GreaterOrEqual(0, 1, "m"), wantErr: true},
		{name: "LessThanHolds", err: LessThan(1, 2, "m"), wantErr: false},
		{name: "LessThanEqual", err: LessThan(2, 2, "m"), wantErr: true},
		{name: "LessOrEqualHolds", err: LessOrEqual(2, 2, "m"), wantErr: false},
		{name: "LessOrEqualAbove", err: LessOrEqual(3, 2, "m"), wantErr: true},
		{name: "Strings", err: LessThan("a", "b", "m"), wantErr: false},
		{name: "Floats", err: GreaterThan(0.5, 0.25, "m"), wantErr: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.err != nil; got != tc.wantErr {
				t.Errorf("error = %v, wantErr %v", tc.err, tc.wantErr)
			}
		})
	}
}

func TestComparisonDuality(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(nil)

	properties.Property("GreaterThan and LessOrEqual partition all pairs", prop.ForAll(
		func(value, base int64) bool {
			gt := GreaterThan(value, base, "m") == nil
			le := LessOrEqual(value, base, "m") == nil
			return gt != le
		},
		gen.Int64(), gen.Int64(),
	))

	properties.Property("GreaterOrEqual agrees with LessOrEqual swapped", prop.ForAll(
		func(value, base int64) bool {
			ge := GreaterOrEqual(value, base, "m") == nil
			le := LessOrEqual(base, value, "m") == nil
			return ge == le
		},
		gen.Int64(), gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestPredicate(t *testing.T) {
	t.Parallel()
	if err := Predicate(true, "m"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Predicate(false, "m"); err == nil {
		t.Error("expected error for false predicate")
	}
}

func TestFirst(t *testing.T) {
	t.Parallel()
	errA := errors.New("a")
	errB := errors.New("b")
	testCases := []struct {
		name string
		errs []error
		want error
	}{
		{name: "Empty", errs: nil, want: nil},
		{name: "AllNil", errs: []error{nil, nil}, want: nil},
		{name: "FirstWins", errs: []error{errA, errB}, want: errA},
		{name: "SkipsNil", errs: []error{nil, errB}, want: errB},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := First(tc.errs...); !errors.Is(got, tc.want) {
				t.Errorf("First() = %v, want %v", got, tc.want)
			}
		})
	}
}
