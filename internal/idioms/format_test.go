package idioms

import "testing"

func TestPrintfLiteralFormat(t *testing.T) {
	f := mkFinding("CWE-134", `printf("hello %s\n", name);`, 1)
	ok, reason, conf := PrintfLiteralFormat.Match(f, emptyWindow())
	if !ok {
		t.Fatal("expected literal format to match")
	}
	if reason == "" || conf != 0.95 {
		t.Fatalf("unexpected reason %q conf %.2f", reason, conf)
	}
}

func TestPrintfLiteralFormatStream(t *testing.T) {
	f := mkFinding("CWE-134", `fprintf(stderr, "oops: %d\n", rc);`, 1)
	if ok, _, _ := PrintfLiteralFormat.Match(f, emptyWindow()); !ok {
		t.Fatal("expected fprintf with literal format to match")
	}
}

func TestPrintfLiteralFormatRejectsPercentN(t *testing.T) {
	f := mkFinding("CWE-134", `printf("count %n", &c);`, 1)
	if ok, _, _ := PrintfLiteralFormat.Match(f, emptyWindow()); ok {
		t.Fatal("expected percent-n literal to stay active")
	}
}

func TestPrintfLiteralFormatRejectsVariable(t *testing.T) {
	f := mkFinding("CWE-134", `printf(fmt);`, 1)
	if ok, _, _ := PrintfLiteralFormat.Match(f, emptyWindow()); ok {
		t.Fatal("expected variable format to stay active")
	}
}

func TestSnprintfLiteralFormat(t *testing.T) {
	f := mkFinding("CWE-134", `snprintf(buf, sizeof(buf), "%s-%d", tag, n);`, 1)
	ok, _, conf := SnprintfLiteralFormat.Match(f, emptyWindow())
	if !ok || conf != 0.95 {
		t.Fatalf("expected match at 0.95, got %v %.2f", ok, conf)
	}
}

func TestSnprintfLiteralFormatRejectsVariable(t *testing.T) {
	f := mkFinding("CWE-134", `snprintf(buf, sizeof(buf), fmt, n);`, 1)
	if ok, _, _ := SnprintfLiteralFormat.Match(f, emptyWindow()); ok {
		t.Fatal("expected variable format to stay active")
	}
}

func TestFormatStringSafeForward(t *testing.T) {
	f := mkFinding("CWE-134", `printf("%s", msg);`, 1)
	ok, _, conf := FormatStringSafeForward.Match(f, emptyWindow())
	if !ok || conf != 0.90 {
		t.Fatalf("expected match at 0.90, got %v %.2f", ok, conf)
	}
	f.Snippet = `fprintf(stderr, "%s", msg);`
	if ok, _, _ := FormatStringSafeForward.Match(f, emptyWindow()); !ok {
		t.Fatal("expected stream forward to match")
	}
}

func TestFormatStringSafeForwardRejectsComposite(t *testing.T) {
	f := mkFinding("CWE-134", `printf("%s and %d", a, b);`, 1)
	if ok, _, _ := FormatStringSafeForward.Match(f, emptyWindow()); ok {
		t.Fatal("expected composite format to stay active")
	}
}
