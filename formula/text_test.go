package formula

import (
	"testing"

	"github.com/sheetcore/engine/internal/errutil"
	"github.com/sheetcore/engine/value"
)

func TestFINDFindsSubstring(t *testing.T) {
	got, err := FIND("lo", "Hello World", 1)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := got.AsNumber()
	if !n.Equal(intDecimal(4)) {
		t.Errorf("FIND = %v, want 4", n)
	}
}

func TestSEARCHIsCaseInsensitive(t *testing.T) {
	got, err := SEARCH("WORLD", "hello world", 1)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := got.AsNumber()
	if !n.Equal(intDecimal(7)) {
		t.Errorf("SEARCH = %v, want 7", n)
	}
}

func TestSEARCHSupportsWildcards(t *testing.T) {
	got, err := SEARCH("w?rld", "hello world", 1)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := got.AsNumber()
	if !n.Equal(intDecimal(7)) {
		t.Errorf("SEARCH(w?rld) = %v, want 7", n)
	}
}

func TestSEARCHNotFoundIsNoMatch(t *testing.T) {
	_, err := SEARCH("zzz", "hello world", 1)
	if errutil.KindOf(err) != errutil.NoMatch {
		t.Fatalf("err kind = %v, want NoMatch", errutil.KindOf(err))
	}
}

func TestFINDNotFoundIsNoMatch(t *testing.T) {
	_, err := FIND("zzz", "Hello World", 1)
	if errutil.KindOf(err) != errutil.NoMatch {
		t.Fatalf("err kind = %v, want NoMatch", errutil.KindOf(err))
	}
}

func TestTEXTSPLITColumnsAndRows(t *testing.T) {
	out, err := TEXTSPLIT("a,b;c,d", ",", ";", false, true, value.NewBlank())
	if err != nil {
		t.Fatal(err)
	}
	size := out.Size()
	if size.H != 2 || size.W != 2 {
		t.Fatalf("TEXTSPLIT size = %v, want 2x2", size)
	}
	if s, _ := out.Get(1, 1).AsText(); s != "d" {
		t.Errorf("TEXTSPLIT(1,1) = %v, want d", out.Get(1, 1))
	}
}

func TestTEXTSPLITPadsShorterRows(t *testing.T) {
	pad := value.NewText("-")
	out, err := TEXTSPLIT("a,b,c;d", ",", ";", false, true, pad)
	if err != nil {
		t.Fatal(err)
	}
	size := out.Size()
	if size.W != 3 || size.H != 2 {
		t.Fatalf("TEXTSPLIT size = %v, want 3x2", size)
	}
	if s, _ := out.Get(1, 1).AsText(); s != "-" {
		t.Errorf("TEXTSPLIT(1,1) = %v, want padding", out.Get(1, 1))
	}
}

func TestTEXTSPLITIgnoresEmptySegments(t *testing.T) {
	out, err := TEXTSPLIT("a,,b", ",", "", true, true, value.NewBlank())
	if err != nil {
		t.Fatal(err)
	}
	if out.Size().W != 2 {
		t.Fatalf("TEXTSPLIT width = %d, want 2", out.Size().W)
	}
}

func TestREGEXTESTMatches(t *testing.T) {
	got, err := REGEXTEST("foo123", `\d+`)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := got.AsLogical()
	if !b {
		t.Error("expected REGEXTEST to match digits")
	}
}

func TestREGEXEXTRACTGroup(t *testing.T) {
	got, err := REGEXEXTRACT("order-4821", `order-(\d+)`, 1)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := got.AsText()
	if !ok || s != "4821" {
		t.Errorf("REGEXEXTRACT group 1 = %v", got)
	}
}

func TestREGEXREPLACE(t *testing.T) {
	got, err := REGEXREPLACE("a1b2c3", `\d`, "-")
	if err != nil {
		t.Fatal(err)
	}
	s, _ := got.AsText()
	if s != "a-b-c-" {
		t.Errorf("REGEXREPLACE = %q, want %q", s, "a-b-c-")
	}
}

func TestTEXTFormatsNumber(t *testing.T) {
	c := &Ctx{}
	got, err := TEXT(c, value.NewNumber(intDecimal(1234)), "#,##0")
	if err != nil {
		t.Fatal(err)
	}
	s, _ := got.AsText()
	if s != "1,234" {
		t.Errorf("TEXT = %q, want %q", s, "1,234")
	}
}
