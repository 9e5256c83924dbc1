package version

import "testing"

func TestUserAgent(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	Version, Commit = "dev", "unknown"
	if got := UserAgent(); got != "animatch/dev" {
		t.Errorf("got %q", got)
	}

	Version, Commit = "1.2.0", "abc123"
	if got := UserAgent(); got != "animatch/1.2.0 (abc123)" {
		t.Errorf("got %q", got)
	}
}
