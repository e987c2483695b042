// Package export writes planning results for calendar and chart front ends.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/kilianp07/weekplan/core/model"
)

// WriteJSON writes the full response to w in JSON format.
func WriteJSON(w io.Writer, res model.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteAssignmentsJSON writes only the assignments.
func WriteAssignmentsJSON(w io.Writer, assignments []model.Assignment) error {
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	return json.NewEncoder(w).Encode(assignments)
}

// WriteAssignmentsCSV writes one row per assignment.
func WriteAssignmentsCSV(w io.Writer, assignments []model.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "label", "start", "end", "priority"}); err != nil {
		return err
	}
	for _, a := range assignments {
		rec := []string{
			a.TaskID,
			a.Label,
			a.Start.Format(time.RFC3339),
			a.End.Format(time.RFC3339),
			strconv.FormatFloat(a.Priority, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSlotsCSV writes the scored slot table.
func WriteSlotsCSV(w io.Writer, slots []model.Slot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "start", "weekday", "hour", "weekend", "utility"}); err != nil {
		return err
	}
	for _, s := range slots {
		rec := []string{
			strconv.Itoa(s.Index),
			s.Start.Format(time.RFC3339),
			s.Weekday.String(),
			strconv.Itoa(s.Hour),
			strconv.FormatBool(s.Weekend),
			strconv.FormatFloat(s.Utility, 'f', 4, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable renders a human readable summary.
func WriteTable(w io.Writer, res model.Response) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tSTART\tEND\tTASK\tPRIORITY")
	for _, a := range res.Assignments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\n",
			a.Start.Format("Mon 02 Jan"), a.Start.Format("15:04"), a.End.Format("15:04"), label(a), a.Priority)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(res.Unscheduled) > 0 {
		if _, err := fmt.Fprintf(w, "\nunscheduled: %v\n", res.Unscheduled); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nstatus: %s  objective: %.4f  nodes: %d  elapsed: %s\n",
		res.Stats.Status, res.Stats.Objective, res.Stats.Nodes, res.Stats.Elapsed.Round(time.Millisecond))
	return err
}

func label(a model.Assignment) string {
	if a.Label != "" {
		return a.Label
	}
	return a.TaskID
}
