package adjudicator

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAcceptsGenuineResult(t *testing.T) {
	in := demoInput(demoClosing)
	res, err := Adjudicate(in)
	require.NoError(t, err)

	report, err := Verify(in, res)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Mismatches)
}

func TestVerifyReportsTamperedFields(t *testing.T) {
	in := demoInput(demoClosing)
	res, err := Adjudicate(in)
	require.NoError(t, err)

	tampered := *res
	tampered.WinnerParticipantID = "user-3"
	tampered.WinnerTicketNumber = 3
	tampered.NumericSeed = new(big.Int).Add(res.NumericSeed, big.NewInt(1))

	report, err := Verify(in, &tampered)
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.ElementsMatch(t, []string{"numeric_seed", "winner_participant_id", "winner_ticket_number"}, report.Mismatches)
	assert.Equal(t, "user-1", report.Expected.WinnerParticipantID)
}

func TestVerifyUsesClaimedVersionWhenInputOmitsIt(t *testing.T) {
	in := demoInput(demoClosing)
	in.AlgorithmVersion = AlgorithmSessionSeed
	in.PublicSeed = strPtr("beacon-abc")
	res, err := Adjudicate(in)
	require.NoError(t, err)

	in.AlgorithmVersion = ""
	report, err := Verify(in, res)
	require.NoError(t, err)
	assert.True(t, report.Valid)
}

func TestVerifyRejectsInvalidInput(t *testing.T) {
	res, err := Adjudicate(demoInput(demoClosing))
	require.NoError(t, err)

	in := demoInput(demoClosing)
	in.Participants = nil
	_, err = Verify(in, res)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = Verify(demoInput(demoClosing), nil)
	require.Error(t, err)
}

func TestVerifyResultHashDetectsTamper(t *testing.T) {
	res, err := Adjudicate(demoInput(demoClosing))
	require.NoError(t, err)

	res.ResultHash = "00" + res.ResultHash[2:]
	assert.Error(t, VerifyResultHash(res))
}
