package database

import "testing"

func TestShouldMigrate(t *testing.T) {
	cases := []struct {
		name  string
		mode  string
		force bool
		want  bool
	}{
		{"debug always migrates", "debug", false, true},
		{"test always migrates", "test", false, true},
		{"release skips by default", "release", false, false},
		{"release migrates when forced", "release", true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldMigrate(tc.mode, tc.force); got != tc.want {
				t.Errorf("ShouldMigrate(%q, %v) = %v, want %v", tc.mode, tc.force, got, tc.want)
			}
		})
	}
}
