package git

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing/filemode"
)

func TestModeClass(t *testing.T) {
	if modeClass(filemode.Regular) != modeClass(filemode.Executable) {
		t.Error("regular and executable files should share a class")
	}
	if modeClass(filemode.Regular) == modeClass(filemode.Symlink) {
		t.Error("regular file and symlink should differ")
	}
	if modeClass(filemode.Regular) == modeClass(filemode.Submodule) {
		t.Error("regular file and gitlink should differ")
	}
}

func TestRawDelta_TouchesSubmodule(t *testing.T) {
	tests := []struct {
		name  string
		delta RawDelta
		want  bool
	}{
		{name: "Regular file", delta: RawDelta{OldMode: filemode.Regular, NewMode: filemode.Regular}, want: false},
		{name: "Gitlink moved", delta: RawDelta{OldMode: filemode.Submodule, NewMode: filemode.Submodule}, want: true},
		{name: "Gitlink added", delta: RawDelta{NewMode: filemode.Submodule}, want: true},
		{name: "Gitlink removed", delta: RawDelta{OldMode: filemode.Submodule}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.delta.touchesSubmodule(); got != tt.want {
				t.Errorf("touchesSubmodule() = %v, want %v", got, tt.want)
			}
		})
	}
}
