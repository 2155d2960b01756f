package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	s := String()
	assert.True(t, strings.HasPrefix(s, "travelmcp version "+BuildVersion))
	assert.Contains(t, s, GoVersion)
}

func TestInfo(t *testing.T) {
	info := Info()
	assert.Equal(t, BuildVersion, info["version"])
	assert.Equal(t, BuildCommit, info["commit"])
	assert.Len(t, info, 4)
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "travel-mcp-server/"+BuildVersion, UserAgent())
}
