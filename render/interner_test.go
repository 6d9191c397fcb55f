package render

import "testing"

func TestInternerDedupesIdenticalStrings(t *testing.T) {
	in := newLabelInterner()
	a := in.Intern("Revenue")
	b := in.Intern("Revenue")
	c := in.Intern("Expenses")
	if a != b {
		t.Errorf("identical strings got different ids: %d vs %d", a, b)
	}
	if a == c {
		t.Error("distinct strings got the same id")
	}
	if in.Get(a) != "Revenue" || in.Get(c) != "Expenses" {
		t.Errorf("Get returned wrong strings: %q %q", in.Get(a), in.Get(c))
	}
	if in.Len() != 2 {
		t.Errorf("Len = %d, want 2", in.Len())
	}
}
