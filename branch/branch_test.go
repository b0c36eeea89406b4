package branch

import "testing"

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "scope and filtered description",
			message: "feat(auth): add refresh token",
			want:    "feat/auth-refresh-token",
		},
		{
			name:    "no scope",
			message: "fix: handle reconnect timeout",
			want:    "fix/reconnect-timeout",
		},
		{
			name:    "unparsed header falls back to feat",
			message: "fix login bug",
			want:    "feat/login-bug",
		},
		{
			name:    "multiline message uses first line only",
			message: "refactor(server): split router setup\n\nThe body should not leak in.",
			want:    "refactor/server-split-router-setup",
		},
		{
			name:    "all filler description survives via raw fallback",
			message: "chore: update",
			want:    "chore/update",
		},
		{
			name:    "description capped at three words",
			message: "feat(api): introduce cursor based pagination tokens",
			want:    "feat/api-introduce-cursor-based",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthesize(tt.message)
			if got != tt.want {
				t.Errorf("Synthesize(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestIsProtected(t *testing.T) {
	for _, name := range []string{"main", "master", "develop", "dev", "staging", "production"} {
		if !IsProtected(name) {
			t.Errorf("IsProtected(%q) = false, want true", name)
		}
	}

	for _, name := range []string{"feat/auth-login", "Main", "dev2", ""} {
		if IsProtected(name) {
			t.Errorf("IsProtected(%q) = true, want false", name)
		}
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"feat/test--double", "feat/test-double"},
		{"feat/test-", "feat/test"},
		{"Feat/Auth Login", "feat/auth-login"},
		{"fix/trailing---many---hyphens", "fix/trailing-many-hyphens"},
		{"  feat/padded  ", "feat/padded"},
		{"feat/mixed_CASE_name", "feat/mixed-case-name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
