package idioms

import (
	"testing"

	"github.com/quellsec/quell/internal/window"
)

func TestFreeThenNull(t *testing.T) {
	code := "free(p);\n" +
		"p = NULL;"
	f := mkFinding("CWE-415", "free(p);", 1)
	ok, reason, conf := FreeThenNull.Match(f, window.Split(code))
	if !ok || conf != 0.90 {
		t.Fatalf("expected match at 0.90, got %v %.2f (%s)", ok, conf, reason)
	}
}

func TestFreeThenNullTooFar(t *testing.T) {
	code := "free(p);\n" +
		"log_release();\n" +
		"update_stats();\n" +
		"flush_queue();\n" +
		"p = NULL;"
	f := mkFinding("CWE-415", "free(p);", 1)
	if ok, _, _ := FreeThenNull.Match(f, window.Split(code)); ok {
		t.Fatal("expected NULL store outside the 3-line window to stay active")
	}
}

func TestFreeThenNullComplexOperand(t *testing.T) {
	code := "free(node->data);\n" +
		"node->data = NULL;"
	f := mkFinding("CWE-416", "free(node->data);", 1)
	if ok, _, _ := FreeThenNull.Match(f, window.Split(code)); !ok {
		t.Fatal("expected NULL store after freeing a member to match")
	}
}

func TestNullGuardedUse(t *testing.T) {
	code := "if (node != NULL) {\n" +
		"    node->next = head;\n" +
		"}"
	f := mkFinding("CWE-476", "node->next = head;", 2)
	ok, _, conf := NullGuardedUse.Match(f, window.Split(code))
	if !ok || conf != 0.90 {
		t.Fatalf("expected match at 0.90, got %v %.2f", ok, conf)
	}
}

func TestNullGuardedUseEarlyExit(t *testing.T) {
	code := "if (!p) return -1;\n" +
		"*p = 5;"
	f := mkFinding("CWE-476", "*p = 5;", 2)
	if ok, _, _ := NullGuardedUse.Match(f, window.Split(code)); !ok {
		t.Fatal("expected early-exit guard to match")
	}
}

func TestNullGuardedUseNoGuard(t *testing.T) {
	code := "node = lookup(key);\n" +
		"node->next = head;"
	f := mkFinding("CWE-476", "node->next = head;", 2)
	if ok, _, _ := NullGuardedUse.Match(f, window.Split(code)); ok {
		t.Fatal("expected unguarded dereference to stay active")
	}
}

func TestNoPostFreeUse(t *testing.T) {
	code := "free(buf);\n" +
		"count = 0;\n" +
		"return 0;"
	f := mkFinding("CWE-416", "free(buf);", 1)
	ok, _, conf := NoPostFreeUse.Match(f, window.Split(code))
	if !ok || conf != 0.85 {
		t.Fatalf("expected match at 0.85, got %v %.2f", ok, conf)
	}
}

func TestNoPostFreeUseAfterFree(t *testing.T) {
	code := "free(buf);\n" +
		"buf[0] = 1;"
	f := mkFinding("CWE-416", "free(buf);", 1)
	if ok, _, _ := NoPostFreeUse.Match(f, window.Split(code)); ok {
		t.Fatal("expected use after free to stay active")
	}
}

func TestNoPostFreeUseDoubleFree(t *testing.T) {
	code := "free(buf);\n" +
		"cleanup();\n" +
		"free(buf);"
	f := mkFinding("CWE-415", "free(buf);", 1)
	if ok, _, _ := NoPostFreeUse.Match(f, window.Split(code)); ok {
		t.Fatal("expected second free to stay active")
	}
}

func TestLeakHandledOnError(t *testing.T) {
	code := "char *p = malloc(n);\n" +
		"if (p == NULL)\n" +
		"    return -1;\n" +
		"if (fill(p) != 0) {\n" +
		"    free(p);\n" +
		"    return -1;\n" +
		"}"
	f := mkFinding("CWE-401", "char *p = malloc(n);", 1)
	ok, _, conf := LeakHandledOnError.Match(f, window.Split(code))
	if !ok || conf != 0.90 {
		t.Fatalf("expected match at 0.90, got %v %.2f", ok, conf)
	}
}

func TestLeakHandledOnErrorNoRelease(t *testing.T) {
	code := "char *p = malloc(n);\n" +
		"if (p == NULL)\n" +
		"    return -1;\n" +
		"return use(p);"
	f := mkFinding("CWE-401", "char *p = malloc(n);", 1)
	if ok, _, _ := LeakHandledOnError.Match(f, window.Split(code)); ok {
		t.Fatal("expected allocation without release to stay active")
	}
}
