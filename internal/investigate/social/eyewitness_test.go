package social

import "testing"

func TestEyewitnessDetector_Detect_ConfidenceByCategories(t *testing.T) {
	d := NewEyewitnessDetector()

	tests := []struct {
		name       string
		content    string
		want       bool
		confidence float64
	}{
		{
			name:       "three categories",
			content:    "I'm at the plant gate right now and I saw the line form, we walked out together",
			want:       true,
			confidence: 0.95,
		},
		{
			name:       "two categories",
			content:    "I was there when it started, happening now at the loading dock",
			want:       true,
			confidence: 0.85,
		},
		{
			name:       "one category",
			content:    "I saw the managers lock the doors this morning",
			want:       true,
			confidence: 0.70,
		},
		{
			name:    "no firsthand language",
			content: "Heard there was some kind of walkout at the plant today",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, conf, matched := d.Detect(tt.content)
			if ok != tt.want {
				t.Fatalf("Detect(%q) = %v, want %v (matched %v)", tt.content, ok, tt.want, matched)
			}
			if ok && conf != tt.confidence {
				t.Errorf("confidence = %.2f, want %.2f (matched %v)", conf, tt.confidence, matched)
			}
		})
	}
}

func TestEyewitnessDetector_Detect_RepeatedPhrasesOneCategory(t *testing.T) {
	d := NewEyewitnessDetector()

	// Several phrases from the same category count once.
	ok, conf, matched := d.Detect("I saw it, I watched it, I heard it all")
	if !ok || conf != 0.70 {
		t.Errorf("same-category repeats = (%v, %.2f, %v), want (true, 0.70)", ok, conf, matched)
	}
}
