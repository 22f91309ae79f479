package usecase

import "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrPrecondition          = errors.New("precondition failed")
	ErrConsistency           = errors.New("inconsistent engine state")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Precondition failures. Each one also matches ErrPrecondition through
// errors.Is from github.com/cockroachdb/errors.
var (
	ErrGameweekSettled     = errors.Mark(errors.New("gameweek already settled"), ErrPrecondition)
	ErrGameweekNotReady    = errors.Mark(errors.New("gameweek has unfinished fixtures"), ErrPrecondition)
	ErrEntryEliminated     = errors.Mark(errors.New("entry is eliminated"), ErrPrecondition)
	ErrEntryNotEliminated  = errors.Mark(errors.New("entry is not eliminated"), ErrPrecondition)
	ErrAttemptUsed         = errors.Mark(errors.New("tiebreak attempt already used"), ErrPrecondition)
	ErrDeadlinePassed      = errors.Mark(errors.New("tiebreak deadline passed"), ErrPrecondition)
	ErrTeamAlreadyUsed     = errors.Mark(errors.New("team already used this round"), ErrPrecondition)
	ErrExactoUsed          = errors.Mark(errors.New("exacto already used this round"), ErrPrecondition)
	ErrPickLocked          = errors.Mark(errors.New("selection is locked"), ErrPrecondition)
	ErrTiebreakNotOpen     = errors.Mark(errors.New("round is not in tiebreak"), ErrPrecondition)
	ErrRoundInTiebreak     = errors.Mark(errors.New("round is in tiebreak"), ErrPrecondition)
	ErrCompetitionInactive = errors.Mark(errors.New("competition is inactive"), ErrPrecondition)
)

// Consistency failures mean the stored data is out of sync with the rules.
var (
	ErrNoActiveRound     = errors.Mark(errors.New("no active round"), ErrConsistency)
	ErrRoundHasNoEntries = errors.Mark(errors.New("round has no entries"), ErrConsistency)
	ErrRoundExists       = errors.Mark(errors.New("next round already exists"), ErrConsistency)
)
