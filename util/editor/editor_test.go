package editor

import (
	"errors"
	"os"
	"testing"
)

func TestEditDataNoChange(t *testing.T) {
	orig := os.Getenv("EDITOR")
	defer os.Setenv("EDITOR", orig)

	os.Setenv("EDITOR", "true")

	data, err := EditData([]byte("root:\n  name: middleware_0\n"))
	if !errors.Is(err, ErrNoChange) {
		t.Logf("expected no change, got %v", err)
		t.FailNow()
	}

	if string(data) != "root:\n  name: middleware_0\n" {
		t.Log("expected original data")
		t.FailNow()
	}
}
