package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"github.com/campushub/clubs-backend/internal/domain/entity"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		from     entity.RequestStatus
		actor    ActorClass
		decision Decision
		want     entity.RequestStatus
		wantErr  bool
	}{
		{"club approve forwards to university", entity.StatusPendingClub, ActorClubPresident, DecisionApprove, entity.StatusPendingUniversity, false},
		{"club reject is terminal", entity.StatusPendingClub, ActorClubPresident, DecisionReject, entity.StatusRejectedClub, false},
		{"staff approve publishes", entity.StatusPendingUniversity, ActorStaff, DecisionApprove, entity.StatusApprovedUniversity, false},
		{"staff reject is terminal", entity.StatusPendingUniversity, ActorStaff, DecisionReject, entity.StatusRejectedUniversity, false},
		{"staff cannot act at club stage", entity.StatusPendingClub, ActorStaff, DecisionApprove, "", true},
		{"president cannot act at university stage", entity.StatusPendingUniversity, ActorClubPresident, DecisionApprove, "", true},
		{"approved is terminal", entity.StatusApprovedUniversity, ActorStaff, DecisionApprove, "", true},
		{"rejected by club is terminal", entity.StatusRejectedClub, ActorClubPresident, DecisionApprove, "", true},
		{"rejected by staff is terminal", entity.StatusRejectedUniversity, ActorStaff, DecisionReject, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.actor, tt.decision)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errorz.ErrInvalidState))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		creator CreatorClass
		want    entity.RequestStatus
	}{
		{CreatorStaff, entity.StatusPendingUniversity},
		{CreatorClubPresident, entity.StatusPendingUniversity},
		{CreatorClubOfficer, entity.StatusPendingClub},
		{CreatorTeamLead, entity.StatusPendingClub},
	}
	for _, tt := range tests {
		got, err := InitialStatus(tt.creator)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "creator %s", tt.creator)
	}

	_, err := InitialStatus("janitor")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorz.ErrValidation))
}

func TestValidOutcome(t *testing.T) {
	assert.True(t, ValidOutcome(entity.AttendanceStatusPresent))
	assert.True(t, ValidOutcome(entity.AttendanceStatusAbsent))
	assert.True(t, ValidOutcome(entity.AttendanceStatusLate))
	assert.False(t, ValidOutcome(entity.AttendanceStatusRegistered))
	assert.False(t, ValidOutcome(entity.AttendanceStatus("UNKNOWN")))
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, entity.StatusApprovedUniversity.Terminal())
	assert.True(t, entity.StatusRejectedClub.Terminal())
	assert.True(t, entity.StatusRejectedUniversity.Terminal())
	assert.False(t, entity.StatusPendingClub.Terminal())
	assert.False(t, entity.StatusPendingUniversity.Terminal())
}
