package competition

import "testing"

func TestParsePolicies(t *testing.T) {
	if got, err := ParseResultPolicy(""); err != nil || got != ResultPolicyStandard {
		t.Fatalf("expected standard default, got %s %v", got, err)
	}
	if got, err := ParseResultPolicy(" STRICT "); err != nil || got != ResultPolicyStrict {
		t.Fatalf("expected strict, got %s %v", got, err)
	}
	if _, err := ParseResultPolicy("lenient"); err == nil {
		t.Fatalf("expected error for unknown result policy")
	}

	if got, err := ParseLockPolicy(""); err != nil || got != LockPolicyGameweek {
		t.Fatalf("expected gameweek default, got %s %v", got, err)
	}
	if got, err := ParseLockPolicy("Kickoff"); err != nil || got != LockPolicyKickoff {
		t.Fatalf("expected kickoff, got %s %v", got, err)
	}
	if _, err := ParseLockPolicy("never"); err == nil {
		t.Fatalf("expected error for unknown lock policy")
	}
}

func TestValidate(t *testing.T) {
	valid := Competition{ID: "c1", Name: "LMS", LivesPerRound: 1, ResultPolicy: ResultPolicyStandard, LockPolicy: LockPolicyGameweek}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invalid := []Competition{
		{Name: "LMS", LivesPerRound: 1},
		{ID: "c1", Name: " ", LivesPerRound: 1},
		{ID: "c1", Name: "LMS"},
		{ID: "c1", Name: "LMS", LivesPerRound: 1, ResultPolicy: "lenient"},
	}
	for _, item := range invalid {
		if err := item.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", item)
		}
	}
}
