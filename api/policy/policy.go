package policy

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sopiot/scheduling-framework-sub001/types"

	"github.com/mitchellh/go-homedir"
)

// Policy is a candidate scheduling policy artifact.
type Policy struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Discover expands the given paths into policy artifacts. Directories expand to
// the regular files within them matching pattern, sorted by file name; files
// are taken as given. Policy names are base names without extension and must
// be unique.
func Discover(paths []string, pattern string) ([]Policy, error) {
	if pattern == "" {
		pattern = "*"
	}

	var (
		policies []Policy
		seen     = make(map[string]string)
		dups     []string
	)

	add := func(path string) {
		p := Policy{Name: Name(path), Path: path}

		if prev, ok := seen[p.Name]; ok {
			dups = append(dups, fmt.Sprintf("%s (%s, %s)", p.Name, prev, path))
			return
		}

		seen[p.Name] = path
		policies = append(policies, p)
	}

	for _, path := range paths {
		path, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("expanding policy path: %w", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, types.NewConfigurationError("policy %s: %v", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		files, err := ioutil.ReadDir(path)
		if err != nil {
			return nil, types.NewConfigurationError("reading policy directory %s: %v", path, err)
		}

		// ReadDir returns entries sorted by file name.
		for _, f := range files {
			if !f.Mode().IsRegular() {
				continue
			}

			match, err := filepath.Match(pattern, f.Name())
			if err != nil {
				return nil, types.NewConfigurationError("invalid policy pattern %s: %v", pattern, err)
			}

			if match {
				add(filepath.Join(path, f.Name()))
			}
		}
	}

	if len(dups) > 0 {
		sort.Strings(dups)

		return nil, &types.ConfigurationError{Msg: "duplicate policy names", Duplicates: dups}
	}

	if len(policies) == 0 {
		return nil, types.NewConfigurationError("no policy artifacts found in %s", strings.Join(paths, ", "))
	}

	return policies, nil
}

// Name returns the policy name for an artifact path.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func Names(policies []Policy) []string {
	names := make([]string, len(policies))

	for i, p := range policies {
		names[i] = p.Name
	}

	return names
}
