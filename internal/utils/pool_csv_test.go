package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importTime = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func TestParsePoolCSV_ChainAndStandby(t *testing.T) {
	data := `product_id,operator_code,chain_group_id,chain_length,max_participants,amount,start_offset_minutes,standby_count,name
phone-1, glo ,evening,3,5,2500,30,2,Evening phones
`
	res, err := ParsePoolCSV(strings.NewReader(data), importTime)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalRows)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Entries, 5)

	head := res.Entries[0]
	assert.Equal(t, models.PoolEntryScheduled, head.Type)
	assert.Equal(t, "GLO", head.OperatorCode)
	assert.Equal(t, "evening", head.ChainGroupID)
	assert.Equal(t, 1, head.ChainIndex)
	require.NotNil(t, head.StartTimestamp)
	assert.Equal(t, importTime.Add(30*time.Minute), *head.StartTimestamp)
	assert.Equal(t, "Evening phones", head.Description)

	for i, link := range res.Entries[1:3] {
		assert.Equal(t, models.PoolEntryChain, link.Type)
		assert.Equal(t, "evening", link.ChainGroupID)
		assert.Equal(t, i+2, link.ChainIndex)
		assert.Nil(t, link.StartTimestamp)
	}
	for _, sb := range res.Entries[3:] {
		assert.Equal(t, models.PoolEntryStandby, sb.Type)
		assert.Empty(t, sb.ChainGroupID)
		assert.Equal(t, 5, sb.MaxParticipants)
		assert.Equal(t, 2500.0, sb.Amount)
	}
}

func TestParsePoolCSV_GeneratesChainGroup(t *testing.T) {
	data := "product_id,operator_code,chain_length,max_participants,amount\np,op,2,3,10\n"
	res, err := ParsePoolCSV(strings.NewReader(data), importTime)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.True(t, strings.HasPrefix(res.Entries[0].ChainGroupID, "chain-"))
	assert.Equal(t, res.Entries[0].ChainGroupID, res.Entries[1].ChainGroupID)
	assert.Equal(t, importTime, *res.Entries[0].StartTimestamp)
}

func TestParsePoolCSV_SingleSessionHasNoChain(t *testing.T) {
	data := "Product,Operator,Group Size,Price\np,op,3,10\n"
	res, err := ParsePoolCSV(strings.NewReader(data), importTime)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Empty(t, res.Entries[0].ChainGroupID)
	assert.Zero(t, res.Entries[0].ChainIndex)
}

func TestParsePoolCSV_BadRowsAreSkipped(t *testing.T) {
	data := `product_id,operator_code,max_participants,amount,chain_length
,op,3,10,1
p,op,zero,10,1
p,op,3,-1,1
p,op,3,10,0
p,op,3,10,1
`
	res, err := ParsePoolCSV(strings.NewReader(data), importTime)
	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalRows)
	assert.Len(t, res.Errors, 4)
	assert.Contains(t, res.Errors[0], "Row 1: no product_id")
	assert.Len(t, res.Entries, 1)
}

func TestParsePoolCSV_MissingRequiredColumn(t *testing.T) {
	_, err := ParsePoolCSV(strings.NewReader("product_id,operator_code,amount\n"), importTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_participants")
}
