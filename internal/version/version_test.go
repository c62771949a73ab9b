package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	v, c, d := Info()
	if v == "" || c == "" || d == "" {
		t.Fatalf("build info fields must not be empty: %q %q %q", v, c, d)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, version) {
		t.Errorf("String should contain the version, got %q", s)
	}
	if !strings.Contains(s, "commit "+commit) {
		t.Errorf("String should name the commit, got %q", s)
	}
	if !strings.Contains(s, "built "+date) {
		t.Errorf("String should name the build date, got %q", s)
	}
}
