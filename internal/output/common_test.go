package output

import (
	"testing"
	"time"
)

func TestLimitTop(t *testing.T) {
	items := []int{1, 2, 3}

	tests := []struct {
		name string
		top  int
		want []int
	}{
		{name: "NoLimitWhenZero", top: 0, want: []int{1, 2, 3}},
		{name: "NoLimitWhenNegative", top: -1, want: []int{1, 2, 3}},
		{name: "Limited", top: 2, want: []int{1, 2}},
		{name: "NoLimitWhenTopExceedsLength", top: 5, want: []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := limitTop(items, tt.top)
			if len(got) != len(tt.want) {
				t.Fatalf("len(limitTop(..., %d)) = %d, want %d", tt.top, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("limitTop(..., %d)[%d] = %d, want %d", tt.top, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestShortSHA(t *testing.T) {
	tests := []struct {
		sha  string
		want string
	}{
		{sha: "0123456789abcdef", want: "0123456"},
		{sha: "abc", want: "abc"},
		{sha: "", want: ""},
	}
	for _, tt := range tests {
		if got := shortSHA(tt.sha); got != tt.want {
			t.Errorf("shortSHA(%q) = %q, want %q", tt.sha, got, tt.want)
		}
	}
}

func TestGeneratedAt(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	if got := generatedAt(&ChangeReport{GeneratedAt: at}); got != "2026-03-01T12:30:00" {
		t.Errorf("generatedAt() = %q", got)
	}
	if got := generatedAt(&ChangeReport{}); got == "" {
		t.Error("generatedAt() of zero time should fall back to now")
	}
}

func TestOpenAppendWriter_Appends(t *testing.T) {
	path := t.TempDir() + "/out.txt"
	for _, line := range []string{"a\n", "b\n"} {
		w, file, err := openAppendWriter(path)
		if err != nil {
			t.Fatalf("openAppendWriter() error = %v", err)
		}
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatal(err)
		}
		file.Close()
	}
	data, err := readTestFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a\nb\n" {
		t.Errorf("content = %q, expected appended lines", data)
	}
}
