package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkerVersionWins(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v1.2.3"

	assert.Equal(t, "v1.2.3", Short())
	assert.Contains(t, String(), "reelbox v1.2.3")
}

func TestStringFillsUnknowns(t *testing.T) {
	oldC, oldD := Commit, Date
	t.Cleanup(func() { Commit, Date = oldC, oldD })
	Commit, Date = "", ""

	s := String()
	assert.Contains(t, s, "reelbox ")
	assert.Contains(t, s, "built ")
}
