package scenes

import (
	"errors"
	"io/fs"
	"slices"
	"testing"
)

func TestNames(t *testing.T) {
	names := Names()
	for _, want := range []string{"chain", "cradle", "pyramid"} {
		if !slices.Contains(names, want) {
			t.Errorf("Expected %q in %v", want, names)
		}
	}
}

func TestRead(t *testing.T) {
	data, err := Read("pyramid")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("Expected scene data")
	}
	if _, err := Read("missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got %v", err)
	}
}
