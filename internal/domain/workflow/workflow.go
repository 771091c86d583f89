// Package workflow holds the role-gated status transition tables for the
// approval tickets. It is deliberately free of storage and transport so the
// tables can be exercised in isolation; services look up a transition here
// and only then touch the store.
package workflow

import (
	"fmt"

	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"github.com/campushub/clubs-backend/internal/domain/entity"
)

// ActorClass is the approval authority acting on a request, already resolved
// by the permission oracle.
type ActorClass string

const (
	ActorClubPresident ActorClass = "club_president"
	ActorStaff         ActorClass = "staff"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// CreatorClass determines at which stage a freshly submitted request enters
// the workflow.
type CreatorClass string

const (
	CreatorStaff         CreatorClass = "staff"
	CreatorClubPresident CreatorClass = "club_president"
	CreatorClubOfficer   CreatorClass = "club_officer"
	CreatorTeamLead      CreatorClass = "team_lead"
)

type transition struct {
	from     entity.RequestStatus
	actor    ActorClass
	decision Decision
}

var transitions = map[transition]entity.RequestStatus{
	{entity.StatusPendingClub, ActorClubPresident, DecisionApprove}: entity.StatusPendingUniversity,
	{entity.StatusPendingClub, ActorClubPresident, DecisionReject}:  entity.StatusRejectedClub,
	{entity.StatusPendingUniversity, ActorStaff, DecisionApprove}:   entity.StatusApprovedUniversity,
	{entity.StatusPendingUniversity, ActorStaff, DecisionReject}:    entity.StatusRejectedUniversity,
}

// Next resolves the status a request moves to when actor takes decision on a
// request currently in from. A request in any other combination stays put and
// the caller gets ErrInvalidState.
func Next(from entity.RequestStatus, actor ActorClass, decision Decision) (entity.RequestStatus, error) {
	next, ok := transitions[transition{from, actor, decision}]
	if !ok {
		return "", fmt.Errorf("%w: no %s transition for %s at %s", errorz.ErrInvalidState, decision, actor, from)
	}
	return next, nil
}

// InitialStatus maps the creator's authority to the stage a new request
// enters at. A president's own approval is implied, so president-created
// requests skip the club stage; staff submissions likewise go straight to
// the university queue.
func InitialStatus(creator CreatorClass) (entity.RequestStatus, error) {
	switch creator {
	case CreatorStaff, CreatorClubPresident:
		return entity.StatusPendingUniversity, nil
	case CreatorClubOfficer, CreatorTeamLead:
		return entity.StatusPendingClub, nil
	default:
		return "", fmt.Errorf("%w: unknown creator class %q", errorz.ErrValidation, creator)
	}
}

// ValidOutcome reports whether s is an acceptable attendance marking target.
// REGISTERED is the initial state only, never an outcome.
func ValidOutcome(s entity.AttendanceStatus) bool {
	switch s {
	case entity.AttendanceStatusPresent, entity.AttendanceStatusAbsent, entity.AttendanceStatusLate:
		return true
	default:
		return false
	}
}
