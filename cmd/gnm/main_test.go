package main

import (
	"strings"
	"testing"
)

func TestRunInvalidFlag(t *testing.T) {
	var stderr strings.Builder
	if code := run([]string{"-nosuchflag", "funcs"}, &stderr); code != 2 {
		t.Errorf("exit code mismatched! want 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "nosuchflag") {
		t.Errorf("error should be reported, got %q", stderr.String())
	}
}
