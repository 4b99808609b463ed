package fsearch

import "testing"

func TestRatioPolicy_Apply(t *testing.T) {
	scores := map[DocumentID]float64{}
	RatioPolicy{}.Apply(scores, 0, 1.0, 2.0, map[DocumentID]int{}, nil, "kava")
	if got, want := scores[0], 0.5; got != want {
		t.Errorf("scores[0] = %v, want %v", got, want)
	}
}

func TestRatioWithPenaltyPolicy_PenalizesRepeats(t *testing.T) {
	scores := map[DocumentID]float64{}
	prevDocs := map[DocumentID]int{}
	policy := RatioWithPenaltyPolicy{}

	policy.Apply(scores, 0, 1.0, 2.0, prevDocs, nil, "kava")
	first := scores[0]

	policy.Apply(scores, 0, 1.0, 2.0, prevDocs, nil, "kava")
	gained := scores[0] - first

	if gained >= first {
		t.Errorf("second contribution (%v) should be smaller than the first (%v)", gained, first)
	}
}

func TestTFIDFPolicy_UsesMatrixWeight(t *testing.T) {
	tf := BuildTFIDF([]string{"kava kava čaj"}, StopWordSet{})
	scores := map[DocumentID]float64{}
	TFIDFPolicy{}.Apply(scores, 0, 1.0, 1.0, map[DocumentID]int{}, tf, "kava")
	if scores[0] <= 0 {
		t.Errorf("scores[0] = %v, want > 0", scores[0])
	}
}

func TestTFIDFPolicy_AbsentWordContributesZero(t *testing.T) {
	tf := BuildTFIDF([]string{"kava"}, StopWordSet{})
	scores := map[DocumentID]float64{}
	TFIDFPolicy{}.Apply(scores, 0, 1.0, 1.0, map[DocumentID]int{}, tf, "nonexistent")
	if scores[0] != 0 {
		t.Errorf("scores[0] = %v, want 0 for an absent word", scores[0])
	}
}

func TestTFIDFWithPenaltyPolicy_PenalizesRepeats(t *testing.T) {
	tf := BuildTFIDF([]string{"kava kava čaj"}, StopWordSet{})
	scores := map[DocumentID]float64{}
	prevDocs := map[DocumentID]int{}
	policy := TFIDFWithPenaltyPolicy{}

	policy.Apply(scores, 0, 1.0, 1.0, prevDocs, tf, "kava")
	first := scores[0]
	policy.Apply(scores, 0, 1.0, 1.0, prevDocs, tf, "kava")
	gained := scores[0] - first

	if first > 0 && gained >= first {
		t.Errorf("second contribution (%v) should be smaller than the first (%v)", gained, first)
	}
}

func TestAllPolicies_Monotonic(t *testing.T) {
	tf := BuildTFIDF([]string{"kava kava čaj"}, StopWordSet{})
	for name, policy := range policies {
		scores := map[DocumentID]float64{}
		prevDocs := map[DocumentID]int{}

		policy.Apply(scores, 0, 0.5, 2.0, prevDocs, tf, "kava")
		before := scores[0]
		policy.Apply(scores, 0, 0.5, 2.0, prevDocs, tf, "kava")
		after := scores[0]

		if after < before {
			t.Errorf("policy %q decreased score from %v to %v after an additional match", name, before, after)
		}
	}
}

func TestResolvePolicy_UnknownFallsBackToDefault(t *testing.T) {
	got := ResolvePolicy("does-not-exist")
	want := ResolvePolicy(DefaultPolicyName)
	if got != want {
		t.Errorf("ResolvePolicy(unknown) = %T, want default %T", got, want)
	}
}

func TestResolvePolicy_KnownNames(t *testing.T) {
	for _, name := range []PolicyName{PolicyRatio, PolicyRatioWithPenalty, PolicyTFIDF, PolicyTFIDFWithPenalty} {
		if ResolvePolicy(name) == nil {
			t.Errorf("ResolvePolicy(%q) = nil", name)
		}
	}
}
