package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/models"
	"github.com/google/uuid"
)

// PoolImportResult summarises one CSV import
type PoolImportResult struct {
	TotalRows int
	Entries   []*models.SessionPoolEntry
	Errors    []string
}

type poolColumns struct {
	productID, operatorCode, chainGroupID, chainLength, maxParticipants int
	amount, startOffset, standbyCount, name                             int
}

// ParsePoolCSV turns pool rows into session pool entries. Each row yields a
// scheduled head starting now+start_offset_minutes, chain_length-1 chain links
// and standby_count standby entries. Bad rows are reported and skipped.
func ParsePoolCSV(r io.Reader, now time.Time) (*PoolImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := poolColumns{
		productID:       findColumnIndex(header, []string{"product_id", "Product ID", "Product"}),
		operatorCode:    findColumnIndex(header, []string{"operator_code", "Operator Code", "Operator"}),
		chainGroupID:    findColumnIndex(header, []string{"chain_group_id", "Chain Group", "Chain"}),
		chainLength:     findColumnIndex(header, []string{"chain_length", "Chain Length"}),
		maxParticipants: findColumnIndex(header, []string{"max_participants", "Max Participants", "Group Size"}),
		amount:          findColumnIndex(header, []string{"amount", "Amount", "Price"}),
		startOffset:     findColumnIndex(header, []string{"start_offset_minutes", "Start Offset", "Start In Minutes"}),
		standbyCount:    findColumnIndex(header, []string{"standby_count", "Standby", "Standby Count"}),
		name:            findColumnIndex(header, []string{"name", "Name", "Description"}),
	}
	for column, idx := range map[string]int{
		"product_id":       cols.productID,
		"operator_code":    cols.operatorCode,
		"max_participants": cols.maxParticipants,
		"amount":           cols.amount,
	} {
		if idx == -1 {
			return nil, fmt.Errorf("%s column not found in CSV", column)
		}
	}

	result := &PoolImportResult{Entries: []*models.SessionPoolEntry{}}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		result.TotalRows++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", result.TotalRows, err))
			continue
		}

		entries, err := parsePoolRow(row, cols, now)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", result.TotalRows, err))
			continue
		}
		result.Entries = append(result.Entries, entries...)
	}
	return result, nil
}

func parsePoolRow(row []string, cols poolColumns, now time.Time) ([]*models.SessionPoolEntry, error) {
	productID := field(row, cols.productID)
	if productID == "" {
		return nil, errors.New("no product_id")
	}
	operator := cleanOperatorCode(field(row, cols.operatorCode))
	if operator == "" {
		return nil, errors.New("no operator_code")
	}

	maxParticipants, err := intField(row, cols.maxParticipants, 0)
	if err != nil || maxParticipants <= 0 {
		return nil, fmt.Errorf("invalid max_participants: %q", field(row, cols.maxParticipants))
	}
	amount, err := strconv.ParseFloat(field(row, cols.amount), 64)
	if err != nil || amount <= 0 {
		return nil, fmt.Errorf("invalid amount: %q", field(row, cols.amount))
	}
	chainLength, err := intField(row, cols.chainLength, 1)
	if err != nil || chainLength < 1 {
		return nil, fmt.Errorf("invalid chain_length: %q", field(row, cols.chainLength))
	}
	offset, err := intField(row, cols.startOffset, 0)
	if err != nil || offset < 0 {
		return nil, fmt.Errorf("invalid start_offset_minutes: %q", field(row, cols.startOffset))
	}
	standby, err := intField(row, cols.standbyCount, 0)
	if err != nil || standby < 0 {
		return nil, fmt.Errorf("invalid standby_count: %q", field(row, cols.standbyCount))
	}

	groupID := field(row, cols.chainGroupID)
	if groupID == "" && chainLength > 1 {
		groupID = "chain-" + uuid.NewString()
	}
	name := field(row, cols.name)

	base := func(t models.PoolEntryType) *models.SessionPoolEntry {
		return &models.SessionPoolEntry{
			ProductID:       productID,
			OperatorCode:    operator,
			Type:            t,
			MaxParticipants: maxParticipants,
			Amount:          amount,
			Description:     name,
		}
	}

	start := now.UTC().Add(time.Duration(offset) * time.Minute)
	head := base(models.PoolEntryScheduled)
	head.StartTimestamp = &start
	if groupID != "" {
		head.ChainGroupID = groupID
		head.ChainIndex = 1
	}

	entries := []*models.SessionPoolEntry{head}
	for i := 2; i <= chainLength; i++ {
		link := base(models.PoolEntryChain)
		link.ChainGroupID = groupID
		link.ChainIndex = i
		entries = append(entries, link)
	}
	for i := 0; i < standby; i++ {
		entries = append(entries, base(models.PoolEntryStandby))
	}
	return entries, nil
}

// findColumnIndex finds the index of a column by possible names
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}

// cleanOperatorCode strips whitespace and upper-cases the code
func cleanOperatorCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func intField(row []string, idx int, def int) (int, error) {
	v := field(row, idx)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
