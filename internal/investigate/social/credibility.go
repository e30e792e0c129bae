package social

// ScoreAccount rates a social account 0-100 from verifiable account
// attributes alone: verification status, account age, follower or
// karma count, and profile completeness. Whether the account's posts
// agree with anything is deliberately not an input.
func ScoreAccount(verified bool, accountAgeDays, followers int, profileComplete bool) int {
	score := 0

	if verified {
		score += 35
	}

	switch {
	case accountAgeDays >= 5*365:
		score += 25
	case accountAgeDays >= 365:
		score += 15
	case accountAgeDays >= 90:
		score += 5
	}

	switch {
	case followers >= 100_000:
		score += 25
	case followers >= 10_000:
		score += 20
	case followers >= 1_000:
		score += 12
	case followers >= 100:
		score += 5
	}

	if profileComplete {
		score += 15
	}

	if score > 100 {
		score = 100
	}
	return score
}
