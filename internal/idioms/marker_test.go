package idioms

import (
	"testing"

	"github.com/quellsec/quell/internal/window"
)

func TestContextSafeInlineMarker(t *testing.T) {
	f := mkFinding("CWE-120", "strcpy(tmp, fixture); /* safe: fixture is a constant */", 1)
	ok, _, conf := ContextSafe.Match(f, emptyWindow())
	if !ok || conf != 0.80 {
		t.Fatalf("expected match at 0.80, got %v %.2f", ok, conf)
	}
}

func TestContextSafeNearbyMarker(t *testing.T) {
	code := "// testing only, never built into the release binary\n" +
		"strcpy(tmp, fixture);"
	f := mkFinding("CWE-120", "strcpy(tmp, fixture);", 2)
	if ok, _, _ := ContextSafe.Match(f, window.Split(code)); !ok {
		t.Fatal("expected marker on an adjacent line to match")
	}
}

func TestContextSafeNoMarker(t *testing.T) {
	code := "// copy the user name into the record\n" +
		"strcpy(tmp, name);"
	f := mkFinding("CWE-120", "strcpy(tmp, name);", 2)
	if ok, _, _ := ContextSafe.Match(f, window.Split(code)); ok {
		t.Fatal("expected unmarked code to stay active")
	}
}
