package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	assert.Equal(t, "main", GetVersion())

	Version = "v0.3.0"
	assert.Equal(t, "v0.3.0", GetVersion())
}
