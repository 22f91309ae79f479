package competition

import (
	"fmt"
	"strings"
	"time"
)

// ResultPolicy decides which pick outcomes cost an entry a life.
type ResultPolicy string

const (
	// ResultPolicyStandard eliminates on LOSS only.
	ResultPolicyStandard ResultPolicy = "standard"
	// ResultPolicyStrict eliminates on DRAW or LOSS.
	ResultPolicyStrict ResultPolicy = "strict"
)

// LockPolicy decides when a pick can no longer be changed.
type LockPolicy string

const (
	LockPolicyGameweek LockPolicy = "gameweek"
	LockPolicyKickoff  LockPolicy = "kickoff"
)

// Competition is one last-man-standing season.
type Competition struct {
	ID             string
	Name           string
	LockPolicy     LockPolicy
	ResultPolicy   ResultPolicy
	LivesPerRound  int
	IsActive       bool
	CurrentRoundID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ParseResultPolicy(raw string) (ResultPolicy, error) {
	switch ResultPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ResultPolicyStandard:
		return ResultPolicyStandard, nil
	case ResultPolicyStrict:
		return ResultPolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown result policy %q", raw)
	}
}

func ParseLockPolicy(raw string) (LockPolicy, error) {
	switch LockPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", LockPolicyGameweek:
		return LockPolicyGameweek, nil
	case LockPolicyKickoff:
		return LockPolicyKickoff, nil
	default:
		return "", fmt.Errorf("unknown lock policy %q", raw)
	}
}

func (c Competition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("competition id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("competition name is required")
	}
	if c.LivesPerRound < 1 {
		return fmt.Errorf("lives per round must be at least 1")
	}
	if _, err := ParseResultPolicy(string(c.ResultPolicy)); err != nil {
		return err
	}
	if _, err := ParseLockPolicy(string(c.LockPolicy)); err != nil {
		return err
	}

	return nil
}
