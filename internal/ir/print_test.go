package ir

import (
	"strings"
	"testing"
)

func TestDumpFunc(t *testing.T) {
	f := asyncFixture("work")

	var sb strings.Builder
	if err := DumpFunc(&sb, f); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"fn work(%v0: chain, %v1: queue) -> chain:",
		"async.execute",
		"alloc",
		"return %v0",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "{") || !strings.Contains(out, "}") {
		t.Fatalf("region body not braced:\n%s", out)
	}
}

func TestDumpLaunchLabel(t *testing.T) {
	f := NewFunc("f")
	l := f.Append(f.Entry, OpLaunch, nil)
	f.Op(l).Label = "gemm"
	f.Append(f.Entry, OpReturn, nil)

	var sb strings.Builder
	if err := DumpFunc(&sb, f); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(sb.String(), "launch @gemm") {
		t.Fatalf("kernel label missing:\n%s", sb.String())
	}
}
