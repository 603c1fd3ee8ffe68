package idioms

import (
	"testing"

	"github.com/quellsec/quell/internal/window"
)

func TestCryptographicSourceUsed(t *testing.T) {
	code := "srand(time(NULL));\n" +
		"int jitter = rand() % 100;\n" +
		`int fd = open("/dev/urandom", O_RDONLY);` + "\n" +
		"read(fd, key, sizeof(key));"
	f := mkFinding("CWE-330", "int jitter = rand() % 100;", 2)
	ok, _, conf := CryptographicSourceUsed.Match(f, window.Split(code))
	if !ok || conf != 0.85 {
		t.Fatalf("expected match at 0.85, got %v %.2f", ok, conf)
	}
}

func TestCryptographicSourceGetrandom(t *testing.T) {
	code := "int jitter = rand() % 100;\n" +
		"getrandom(key, sizeof(key), 0);"
	f := mkFinding("CWE-330", "int jitter = rand() % 100;", 1)
	if ok, _, _ := CryptographicSourceUsed.Match(f, window.Split(code)); !ok {
		t.Fatal("expected getrandom call to match")
	}
}

func TestCryptographicSourceAbsent(t *testing.T) {
	code := "srand(time(NULL));\n" +
		"session_id = rand();"
	f := mkFinding("CWE-330", "session_id = rand();", 2)
	if ok, _, _ := CryptographicSourceUsed.Match(f, window.Split(code)); ok {
		t.Fatal("expected rand without a crypto source to stay active")
	}
}
