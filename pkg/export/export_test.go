package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/weekplan/core/model"
)

var start = time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

func sample() model.Response {
	return model.Response{
		Assignments: []model.Assignment{
			{TaskID: "a", Label: "Report", Start: start, End: start.Add(3 * time.Hour), Priority: 3},
			{TaskID: "b", Start: start.Add(5 * time.Hour), End: start.Add(6 * time.Hour), Priority: 1},
		},
		Slots: []model.Slot{
			model.NewSlot(0, start),
			model.NewSlot(1, start.Add(time.Hour)),
		},
		Unscheduled: []string{"c"},
		Stats:       model.SolveStats{Status: model.StatusOptimal, Objective: 2.5},
	}
}

func TestWriteAssignmentsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAssignmentsCSV(&buf, sample().Assignments))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "label", "start", "end", "priority"}, rows[0])
	assert.Equal(t, []string{"a", "Report", "2025-11-03T09:00:00Z", "2025-11-03T12:00:00Z", "3"}, rows[1])
}

func TestWriteAssignmentsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAssignmentsJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteAssignmentsJSON(&buf, sample().Assignments))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0]["id"])
	assert.Equal(t, "2025-11-03T09:00:00Z", got[0]["start"])
}

func TestWriteSlotsCSV(t *testing.T) {
	res := sample()
	res.Slots[1].Utility = 0.73
	var buf bytes.Buffer
	require.NoError(t, WriteSlotsCSV(&buf, res.Slots))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "2025-11-03T10:00:00Z", "Monday", "10", "false", "0.7300"}, rows[2])
}

func TestWriteTableAndJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sample()))
	out := buf.String()
	assert.Contains(t, out, "Report")
	assert.Contains(t, out, "Mon 03 Nov")
	assert.Contains(t, out, "unscheduled: [c]")
	assert.True(t, strings.Contains(out, "status: optimal"))

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, sample()))
	var got model.Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"c"}, got.Unscheduled)
	assert.Equal(t, model.StatusOptimal, got.Stats.Status)
}
