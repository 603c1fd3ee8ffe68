package window

import "testing"

const sample = "one\ntwo\nthree\nfour\nfive"

func TestLine(t *testing.T) {
	l := Split(sample)
	if got := l.Line(3); got != "three" {
		t.Fatalf("Line(3) = %q, want three", got)
	}
	if got := l.Line(0); got != "" {
		t.Fatalf("Line(0) = %q, want empty", got)
	}
	if got := l.Line(6); got != "" {
		t.Fatalf("Line(6) = %q, want empty", got)
	}
}

func TestPrev(t *testing.T) {
	l := Split(sample)
	got := l.Prev(4, 2)
	if len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Fatalf("Prev(4,2) = %v", got)
	}
	// Near the start: fewer lines, no error.
	got = l.Prev(2, 5)
	if len(got) != 1 || got[0] != "one" {
		t.Fatalf("Prev(2,5) = %v", got)
	}
	if got := l.Prev(1, 3); got != nil {
		t.Fatalf("Prev(1,3) = %v, want nil", got)
	}
}

func TestNext(t *testing.T) {
	l := Split(sample)
	got := l.Next(3, 2)
	if len(got) != 2 || got[0] != "four" || got[1] != "five" {
		t.Fatalf("Next(3,2) = %v", got)
	}
	got = l.Next(4, 10)
	if len(got) != 1 || got[0] != "five" {
		t.Fatalf("Next(4,10) = %v", got)
	}
	if got := l.Next(5, 3); got != nil {
		t.Fatalf("Next(5,3) = %v, want nil", got)
	}
}

func TestEmpty(t *testing.T) {
	var l Lines
	if l.Len() != 0 || l.Line(1) != "" || l.Prev(5, 3) != nil || l.Next(0, 3) != nil {
		t.Fatal("zero value should behave like an empty file")
	}
	l = Split("")
	if l.Len() != 0 {
		t.Fatalf("Split(\"\").Len() = %d", l.Len())
	}
}
