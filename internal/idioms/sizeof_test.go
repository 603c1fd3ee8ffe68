package idioms

import (
	"testing"

	"github.com/quellsec/quell/internal/window"
)

func TestSizeofFixedBuffer(t *testing.T) {
	code := "char name[64];\n" +
		"memset(name, 0, sizeof(name));"
	f := mkFinding("CWE-467", "memset(name, 0, sizeof(name));", 2)
	ok, _, conf := SizeofFixedBuffer.Match(f, window.Split(code))
	if !ok || conf != 0.90 {
		t.Fatalf("expected match at 0.90, got %v %.2f", ok, conf)
	}
}

func TestSizeofFixedBufferPointerDecl(t *testing.T) {
	code := "char *name = lookup();\n" +
		"memset(name, 0, sizeof(name));"
	f := mkFinding("CWE-467", "memset(name, 0, sizeof(name));", 2)
	if ok, _, _ := SizeofFixedBuffer.Match(f, window.Split(code)); ok {
		t.Fatal("expected sizeof on a pointer to stay active")
	}
}

func TestSizeofDerefPointer(t *testing.T) {
	f := mkFinding("CWE-467", "memcpy(dst, src, sizeof(*dst));", 1)
	ok, _, conf := SizeofDerefPointer.Match(f, emptyWindow())
	if !ok || conf != 0.90 {
		t.Fatalf("expected match at 0.90, got %v %.2f", ok, conf)
	}
}

func TestSizeofDerefPointerPlainIdent(t *testing.T) {
	f := mkFinding("CWE-467", "memcpy(dst, src, sizeof(dst));", 1)
	if ok, _, _ := SizeofDerefPointer.Match(f, emptyWindow()); ok {
		t.Fatal("expected sizeof without deref to stay active")
	}
}
