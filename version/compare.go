// Package version checks for newer releases of simplay.
package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// parse reads "v1.2.3", "1.2" or "1.2.3-rc.1" into major, minor and patch.
// Missing parts are zero; pre-release and build suffixes are ignored.
func parse(s string) ([3]int, error) {
	var v [3]int

	core, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), "+")
	core, _, _ = strings.Cut(core, "-")

	parts := strings.Split(core, ".")
	if len(parts) > len(v) {
		return v, fmt.Errorf("invalid version %q", s)
	}

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return v, fmt.Errorf("invalid version %q", s)
		}
		v[i] = n
	}

	return v, nil
}

// Compare returns 1 if a is newer than b, -1 if it is older and 0 if they
// name the same release.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	diff, found := lo.Find(lo.Range(len(av)), func(i int) bool {
		return av[i] != bv[i]
	})
	if !found {
		return 0, nil
	}
	return cmp.Compare(av[diff], bv[diff]), nil
}
