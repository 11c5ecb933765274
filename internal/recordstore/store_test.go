package recordstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Clone(t *testing.T) {
	orig := &Record{
		TargetID:  "libc",
		Markers:   map[string]string{"a.c": "1"},
		DepStamps: map[string]string{"libsystem": "s"},
		Artifacts: []string{"a.o"},
		Complete:  true,
	}

	c := orig.Clone()
	c.Markers["a.c"] = "2"
	c.DepStamps["libsystem"] = "t"
	c.Artifacts[0] = "b.o"

	assert.Equal(t, "1", orig.Markers["a.c"])
	assert.Equal(t, "s", orig.DepStamps["libsystem"])
	assert.Equal(t, "a.o", orig.Artifacts[0])
	assert.Nil(t, (*Record)(nil).Clone())
}
