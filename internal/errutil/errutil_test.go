package errutil

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{DivideByZero, "#DIV/0!"},
		{NameNotFound, "#NAME?"},
		{RefInvalid, "#REF!"},
		{NumInvalid, "#NUM!"},
		{EmptyArray, "#CALC!"},
		{NoMatch, "#N/A"},
		{Unknown, "#ERROR!"},
	}
	for _, c := range cases {
		if got := c.k.String(); got != c.want {
			t.Errorf("%v.String() = %q, want %q", c.k, got, c.want)
		}
	}
}

func TestWrapAndKindOf(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(DivideByZero, "formula: DIV", base)
	if KindOf(err) != DivideByZero {
		t.Errorf("KindOf = %v, want DivideByZero", KindOf(err))
	}
	if !errors.Is(err, base) {
		t.Error("expected errors.Is to find wrapped base error")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("plain")) != Unknown {
		t.Error("expected Unknown for non-*Error")
	}
}
