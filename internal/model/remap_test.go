package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemapRule_Apply(t *testing.T) {
	tests := []struct {
		name        string
		rule        RemapRule
		path        string
		want        string
		wantChanged bool
	}{
		{
			"container path remapped",
			RemapRule{From: "/opt/omegaup/", To: "/home/dev/project/"},
			"/opt/omegaup/src/X.php",
			"/home/dev/project/src/X.php",
			true,
		},
		{
			"non-matching path passes through",
			RemapRule{From: "/opt/omegaup/", To: "/home/dev/project/"},
			"/var/www/other.php",
			"/var/www/other.php",
			false,
		},
		{
			"already canonical path untouched",
			RemapRule{From: "/opt/omegaup/", To: "/home/dev/project/"},
			"/home/dev/project/src/X.php",
			"/home/dev/project/src/X.php",
			false,
		},
		{
			"empty from never matches",
			RemapRule{From: "", To: "/home/dev/"},
			"/opt/omegaup/src/X.php",
			"/opt/omegaup/src/X.php",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := tt.rule.Apply(tt.path)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestRemapRule_ApplyIsIdempotent(t *testing.T) {
	rule := RemapRule{From: "/opt/omegaup/", To: "/home/dev/project/"}

	once, changed := rule.Apply("/opt/omegaup/src/X.php")
	assert.True(t, changed)

	twice, changed := rule.Apply(once)
	assert.False(t, changed)
	assert.Equal(t, once, twice)
}

func TestRuleSet_FirstMatchWins(t *testing.T) {
	rules := RuleSet{
		{From: "/opt/app/src/", To: "/workspace/src/"},
		{From: "/opt/app/", To: "/workspace/"},
	}

	got, changed := rules.Apply("/opt/app/src/main.php")
	assert.True(t, changed)
	assert.Equal(t, "/workspace/src/main.php", got)

	got, changed = rules.Apply("/opt/app/frontend/app.ts")
	assert.True(t, changed)
	assert.Equal(t, "/workspace/frontend/app.ts", got)
}

func TestRuleSet_NoMatchPassesThrough(t *testing.T) {
	rules := RuleSet{{From: "/opt/app/", To: "/workspace/"}}

	got, changed := rules.Apply("/usr/lib/vendor.php")
	assert.False(t, changed)
	assert.Equal(t, "/usr/lib/vendor.php", got)
}
