package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "v1.2.0 (0123456)", Info{Version: "v1.2.0", Commit: "0123456789abcdef"}.Short())
	assert.Equal(t, "dev (none)", Info{Version: "dev", Commit: "none"}.Short())
}
