package version

import "testing"

func TestGetVersionDefaultsToDev(t *testing.T) {
	if got := GetVersion(); got != "dev" {
		t.Errorf("Expected default version dev, got %q", got)
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	for _, key := range []string{"version", "build_time", "git_commit"} {
		if info[key] == "" {
			t.Errorf("Expected build info to carry %q", key)
		}
	}

	if info["version"] != GetVersion() {
		t.Errorf("Expected build info version %q, got %q", GetVersion(), info["version"])
	}
}
