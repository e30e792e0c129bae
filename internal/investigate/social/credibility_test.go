package social

import "testing"

func TestScoreAccount(t *testing.T) {
	tests := []struct {
		name            string
		verified        bool
		ageDays         int
		followers       int
		profileComplete bool
		want            int
	}{
		{"everything maxed", true, 6 * 365, 250_000, true, 100},
		{"verified only", true, 0, 0, false, 35},
		{"old account modest following", false, 6 * 365, 5_000, true, 52},
		{"young account", false, 30, 50, false, 0},
		{"one year with small following", false, 400, 1_500, false, 27},
		{"nothing", false, 0, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAccount(tt.verified, tt.ageDays, tt.followers, tt.profileComplete)
			if got != tt.want {
				t.Errorf("ScoreAccount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreAccount_ClampedAt100(t *testing.T) {
	if got := ScoreAccount(true, 10*365, 1_000_000, true); got != 100 {
		t.Errorf("score should clamp at 100, got %d", got)
	}
}
