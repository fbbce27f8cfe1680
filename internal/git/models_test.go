package git

import "testing"

func TestDeltaStatus_String(t *testing.T) {
	tests := []struct {
		status   DeltaStatus
		expected string
	}{
		{DeltaUnmodified, "unmodified"},
		{DeltaAdded, "added"},
		{DeltaDeleted, "deleted"},
		{DeltaModified, "modified"},
		{DeltaRenamed, "renamed"},
		{DeltaCopied, "copied"},
		{DeltaIgnored, "ignored"},
		{DeltaUntracked, "untracked"},
		{DeltaTypeChanged, "typechange"},
		{DeltaUnreadable, "unreadable"},
		{DeltaConflicted, "conflicted"},
		{DeltaStatus(99), "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("String() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
