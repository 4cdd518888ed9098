package fsutil

import "testing"

func TestMatchesIgnoreSuffix(t *testing.T) {
	cases := []struct {
		name, rel string
		patterns  []string
		want      bool
	}{
		{"foo.o", "a/foo.o", []string{".o"}, true},
		{"foo.c", "a/foo.c", []string{".o"}, false},
		{"x", "x", nil, false},
		{".devsync.session", ".devsync.session", []string{".session"}, true},
	}
	for _, c := range cases {
		if got := MatchesIgnore(c.name, c.rel, c.patterns); got != c.want {
			t.Errorf("MatchesIgnore(%q,%q,%v) = %v, want %v", c.name, c.rel, c.patterns, got, c.want)
		}
	}
}

func TestMatchesIgnoreGlob(t *testing.T) {
	if !MatchesIgnore("foo.log", "build/logs/foo.log", []string{"**/logs/*.log"}) {
		t.Error("expected glob pattern to match nested log file")
	}
	if MatchesIgnore("foo.log", "build/logs/foo.log", []string{"**/cache/*.log"}) {
		t.Error("did not expect mismatched glob pattern to match")
	}
}
