package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/weekplan/core/model"
	"github.com/kilianp07/weekplan/core/scheduler"
	"github.com/kilianp07/weekplan/infra/logger"
	"github.com/kilianp07/weekplan/infra/metrics"
	"github.com/kilianp07/weekplan/pkg/export"
)

var (
	requestPath string
	format      string
	slotsOut    string
	nowFlag     string
	missIDs     []string
	metricsOut  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute the schedule for a request file",
	RunE:  plan,
}

func init() {
	planCmd.Flags().StringVarP(&requestPath, "request", "r", "", "request file (yaml or json)")
	planCmd.Flags().StringVar(&format, "format", "table", "output format: table, json or csv")
	planCmd.Flags().StringVar(&slotsOut, "slots-out", "", "write the scored slot table as CSV to this file")
	planCmd.Flags().StringVar(&nowFlag, "now", "", "current time (RFC3339), defaults to the wall clock")
	planCmd.Flags().StringSliceVar(&missIDs, "miss", nil, "mark the assignment of these task ids as missed and re-plan")
	planCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics in text format to this file")
	_ = planCmd.MarkFlagRequired("request")
	rootCmd.AddCommand(planCmd)
}

func plan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch format {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.Logging.Level)
	logg := logger.New("plan-command")

	req, err := scheduler.LoadRequest(requestPath, cfg.Preferences)
	if err != nil {
		return fmt.Errorf("load request: %w", err)
	}
	now := time.Now()
	if nowFlag != "" {
		if now, err = time.Parse(time.RFC3339, nowFlag); err != nil {
			return fmt.Errorf("parse --now: %w", err)
		}
	}
	if req.EarliestAllowed == nil {
		e := scheduler.EarliestAllowed(now, req.WeekStart, req.Preferences.SlotMinutes)
		req.EarliestAllowed = &e
	}

	planner, err := newPlanner(cfg)
	if err != nil {
		return err
	}
	rec, err := metrics.NewPromRecorder()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	planner.Recorder = rec
	res, err := planner.Plan(ctx, req)
	if err != nil {
		return err
	}
	for _, id := range missIDs {
		a, ok := findAssignment(res, id)
		if !ok {
			logg.Warnf("task %s has no assignment to mark as missed", id)
			continue
		}
		req = scheduler.MarkMissed(req, a)
		if res, err = planner.Plan(ctx, req); err != nil {
			return err
		}
	}

	if metricsOut != "" {
		if err := metrics.WriteTextfile(metricsOut, nil); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if slotsOut != "" {
		if err := writeSlots(slotsOut, res.Slots); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return export.WriteJSON(out, res)
	case "csv":
		return export.WriteAssignmentsCSV(out, res.Assignments)
	default:
		return export.WriteTable(out, res)
	}
}

func findAssignment(res model.Response, id string) (model.Assignment, bool) {
	for _, a := range res.Assignments {
		if a.TaskID == id {
			return a, true
		}
	}
	return model.Assignment{}, false
}

func writeSlots(path string, slots []model.Slot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create slots file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.WriteSlotsCSV(f, slots)
}
