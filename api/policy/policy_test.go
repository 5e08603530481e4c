package policy

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sopiot/scheduling-framework-sub001/types"
)

func TestDiscover(t *testing.T) {
	dir, _ := ioutil.TempDir("", "schedbench-policy")
	defer os.RemoveAll(dir)

	for _, name := range []string{"random.cc", "greedy.cc", "README.md"} {
		ioutil.WriteFile(filepath.Join(dir, name), []byte("//"), 0644)
	}

	os.Mkdir(filepath.Join(dir, "sub.cc"), 0755)

	extra := filepath.Join(dir, "README.md")

	policies, err := Discover([]string{dir, extra}, "*.cc")
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	names := Names(policies)

	if len(names) != 3 || names[0] != "greedy" || names[1] != "random" || names[2] != "README" {
		t.Logf("unexpected policies %v", names)
		t.FailNow()
	}
}

func TestDiscoverErrors(t *testing.T) {
	dir, _ := ioutil.TempDir("", "schedbench-policy")
	defer os.RemoveAll(dir)

	if _, err := Discover([]string{dir}, ""); !errors.Is(err, types.ErrConfiguration) {
		t.Logf("expected configuration error for empty directory, got %v", err)
		t.FailNow()
	}

	if _, err := Discover([]string{filepath.Join(dir, "nope.cc")}, ""); !errors.Is(err, types.ErrConfiguration) {
		t.Logf("expected configuration error for missing file, got %v", err)
		t.FailNow()
	}

	ioutil.WriteFile(filepath.Join(dir, "greedy.cc"), []byte("//"), 0644)
	ioutil.WriteFile(filepath.Join(dir, "greedy.py"), []byte("#"), 0644)

	if _, err := Discover([]string{dir}, "*"); !errors.Is(err, types.ErrConfiguration) {
		t.Logf("expected configuration error for duplicate names, got %v", err)
		t.FailNow()
	}
}
