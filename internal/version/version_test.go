package version

import "testing"

func TestGet(t *testing.T) {
	v := Get()
	if v.Version == "" || v.BuildDate == "" || v.GitCommit == "" {
		t.Errorf("Get() returned empty fields: %+v", v)
	}
}
