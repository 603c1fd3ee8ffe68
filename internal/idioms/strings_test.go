package idioms

import (
	"testing"

	"github.com/quellsec/quell/internal/window"
)

func TestStrncpyBoundsPlusNul(t *testing.T) {
	code := "strncpy(dst, src, sizeof(dst) - 1);\n" +
		`dst[sizeof(dst) - 1] = '\0';`
	f := mkFinding("CWE-120", "strncpy(dst, src, sizeof(dst) - 1);", 1)
	ok, reason, conf := StrncpyBoundsPlusNul.Match(f, window.Split(code))
	if !ok || conf != 0.95 {
		t.Fatalf("expected match at 0.95, got %v %.2f (%s)", ok, conf, reason)
	}
}

func TestStrncpyBoundsMismatchedBuffer(t *testing.T) {
	// Size derived from the source, not the destination.
	f := mkFinding("CWE-120", "strncpy(dst, src, sizeof(src) - 1);", 1)
	if ok, _, _ := StrncpyBoundsPlusNul.Match(f, emptyWindow()); ok {
		t.Fatal("expected sizeof(src) bound to stay active")
	}
}

func TestStrncpyMissingTerminator(t *testing.T) {
	code := "strncpy(dst, src, sizeof(dst) - 1);\n" +
		"return dst;"
	f := mkFinding("CWE-120", "strncpy(dst, src, sizeof(dst) - 1);", 1)
	if ok, _, _ := StrncpyBoundsPlusNul.Match(f, window.Split(code)); ok {
		t.Fatal("expected missing NUL write to stay active")
	}
}

func TestStrncatSpaceGuard(t *testing.T) {
	f := mkFinding("CWE-120", "strncat(buf, s, sizeof(buf) - strlen(buf) - 1);", 1)
	ok, _, conf := StrncatSpaceGuard.Match(f, emptyWindow())
	if !ok || conf != 0.90 {
		t.Fatalf("expected match at 0.90, got %v %.2f", ok, conf)
	}
}

func TestStrncatSpaceGuardOnPrecedingLine(t *testing.T) {
	code := "size_t room = sizeof(buf) - strlen(buf) - 1;\n" +
		"strncat(buf, s, room);"
	f := mkFinding("CWE-120", "strncat(buf, s, room);", 2)
	if ok, _, _ := StrncatSpaceGuard.Match(f, window.Split(code)); !ok {
		t.Fatal("expected preceding capacity computation to match")
	}
}

func TestStrncatNoGuard(t *testing.T) {
	f := mkFinding("CWE-120", "strncat(buf, s, n);", 1)
	if ok, _, _ := StrncatSpaceGuard.Match(f, emptyWindow()); ok {
		t.Fatal("expected unguarded strncat to stay active")
	}
}

func TestScanfWidthSpecifier(t *testing.T) {
	f := mkFinding("CWE-120", `scanf("%31s", name);`, 1)
	ok, _, conf := ScanfWidthSpecifier.Match(f, emptyWindow())
	if !ok || conf != 0.90 {
		t.Fatalf("expected match at 0.90, got %v %.2f", ok, conf)
	}
}

func TestScanfBareStringConversion(t *testing.T) {
	f := mkFinding("CWE-120", `scanf("%s", name);`, 1)
	if ok, _, _ := ScanfWidthSpecifier.Match(f, emptyWindow()); ok {
		t.Fatal("expected bare string conversion to stay active")
	}
}

func TestScanfMixedConversions(t *testing.T) {
	// One bounded conversion does not excuse the unbounded one.
	f := mkFinding("CWE-120", `scanf("%31s %s", a, b);`, 1)
	if ok, _, _ := ScanfWidthSpecifier.Match(f, emptyWindow()); ok {
		t.Fatal("expected mixed format to stay active")
	}
}
