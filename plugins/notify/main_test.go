package main

import "testing"

func TestMessage(t *testing.T) {
	tests := map[string]string{
		"counting":       "Counting complete!",
		"bridge_builder": "Bridge Builder complete!",
		"mystery":        "mystery complete!",
	}
	for module, want := range tests {
		if got := message(module); got != want {
			t.Errorf("message(%q) = %q, want %q", module, got, want)
		}
	}
}

func TestQuote(t *testing.T) {
	if got := quote(`say "hi" \o/`); got != `"say \"hi\" \\o/"` {
		t.Errorf("quote() = %s", got)
	}
}
