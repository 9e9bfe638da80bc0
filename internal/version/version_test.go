package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	cases := map[string]struct{ version, commit, want string }{
		"development build": {"development", "unknown", "development"},
		"release build":     {"1.4.0", "9f3c2ab", "1.4.0+9f3c2ab"},
		"release untracked": {"1.4.0", "unknown", "1.4.0"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			Version, Commit = tc.version, tc.commit
			assert.Equal(t, tc.want, String())
		})
	}
}
