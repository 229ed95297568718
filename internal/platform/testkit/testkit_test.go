package testkit

import "testing"

var seam = func() string { return "real" }

func TestSwap_RestoresAfterTest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Serial(t)
		Swap(t, &seam, func() string { return "fake" })
		if got := seam(); got != "fake" {
			t.Fatalf("seam = %q", got)
		}
	})
	if got := seam(); got != "real" {
		t.Fatalf("seam after cleanup = %q", got)
	}
}

func TestMustPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustPanic(t, func() {
		var m map[string]int
		m["x"] = 1
	})
}
