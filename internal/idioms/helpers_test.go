package idioms

import "testing"

func TestContainsCall(t *testing.T) {
	cases := []struct {
		line string
		name string
		want bool
	}{
		{"strcpy(dst, src);", "strcpy", true},
		{"strcpy (dst, src);", "strcpy", true},
		{"my_strcpy_safe(dst, src);", "strcpy", false},
		{"strcpy_s(dst, n, src);", "strcpy", false},
		{"// strcpy is banned here", "strcpy", false},
		{"x = strcpy(dst, src) + strcpy(a, b);", "strcpy", true},
	}
	for _, c := range cases {
		if got := containsCall(c.line, c.name); got != c.want {
			t.Errorf("containsCall(%q, %q) = %v, want %v", c.line, c.name, got, c.want)
		}
	}
}

func TestStringLiterals(t *testing.T) {
	lits := stringLiterals(`printf("a %s", "b \" c");`)
	if len(lits) != 2 {
		t.Fatalf("expected 2 literals, got %d: %v", len(lits), lits)
	}
	if lits[0] != "a %s" {
		t.Errorf("unexpected first literal %q", lits[0])
	}
	if lits[1] != `b \" c` {
		t.Errorf("unexpected second literal %q", lits[1])
	}
}

func TestStringLiteralsUnterminated(t *testing.T) {
	if lits := stringLiterals(`puts("oops`); lits != nil {
		t.Fatalf("expected no literals, got %v", lits)
	}
}

func TestIdentRef(t *testing.T) {
	if re := identRef("buf", `\s*\[`); re == nil || !re.MatchString("buf[10]") {
		t.Fatal("expected plain identifier to compile and match")
	}
	if re := identRef("node->data", `\b`); re != nil {
		t.Fatal("expected complex operand to be rejected")
	}
}
