package detgeom

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	d := newPair(t)
	var diag bytes.Buffer
	SetLogWriters(nil, &diag, nil)
	defer SetLogWriters(os.Stderr, nil, nil)

	one := d.r.Describe(d.a1, false)
	assert.Contains(t, one, `leaf "a1"`)
	assert.Contains(t, one, "absolute midpoint 100.000 0.000")
	assert.NotContains(t, one, `"a0"`)

	full := d.r.FullDescription()
	lines := strings.Split(strings.TrimSpace(full), "\n")
	assert.True(t, strings.HasPrefix(lines[0], `group "master"`), lines[0])
	for _, tag := range []string{`group "q0"`, `leaf "a0"`, `leaf "a1"`} {
		assert.Contains(t, full, tag)
	}
	assert.Contains(t, full, "\n    leaf \"a0\"", "leaves nested two levels deep")
	assert.Contains(t, diag.String(), d.r.RunID)

	assert.Equal(t, "", NewRegistry(Options{}).FullDescription())
}
