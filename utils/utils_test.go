package utils

import "testing"

func TestUrlQuery(t *testing.T) {
	if got := UrlQuery(" go & rust "); got != "go+%26+rust" {
		t.Fatalf("unexpected escape %q", got)
	}
}

func TestStr(t *testing.T) {
	if Str(nil) != "" {
		t.Fatalf("nil should render empty")
	}
	if Str("x") != "x" || Str(3) != "3" {
		t.Fatalf("unexpected rendering")
	}
}
