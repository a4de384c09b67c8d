// Package schedule holds the shiftplan CLI's demo subcommands: single-day,
// weekly, and demand-aware scheduling runs against a synthetic roster.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fulfillhq/shiftplan/adapter/cli"
	"github.com/fulfillhq/shiftplan/internal/samplegen"
	"github.com/fulfillhq/shiftplan/internal/scheduling/application/heuristic"
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

var (
	demoCount  int
	demoOutput string
	demoSeed   int64
)

// DemoCmd runs a single-day demo schedule against a sample roster.
var DemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Schedule a single demo day against a sample roster",
	Long: `Builds a sample roster and solves one day with the heuristic
solver, printing a plain-text summary of the resulting schedule.

Examples:
  shiftplan demo --count 15
  shiftplan demo --count 20 --seed 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if demoOutput != "" {
			cli.Logger().Debug("--output is a no-op placeholder; PDF rendering is out of scope", "path", demoOutput)
		}

		date := time.Now().Format("2006-01-02")
		workers := samplegen.NewGenerator(demoSeed).Associates(demoCount, []string{date})

		req := domain.Request{
			Date:    date,
			Workers: workers,
			RoleCaps: map[domain.Role]int{
				domain.RolePicking:     999,
				domain.RoleGMDSM:       2,
				domain.RoleExceptionSM: 2,
				domain.RoleStaging:     3,
				domain.RoleBackroom:    3,
				domain.RoleSR:          2,
			},
		}.WithDefaults()

		solver := heuristic.NewSolver()
		day, stats := solver.SolveDay(req)

		fmt.Printf("Demo schedule for %d associates on %s\n", demoCount, date)
		fmt.Println(strings.Repeat("-", 48))
		fmt.Printf("  Assigned:    %d / %d\n", len(day.Assignments), demoCount)
		fmt.Printf("  Solve time:  %s\n", stats.WallTime)
		printDaySummary(day)

		return nil
	},
}

func init() {
	DemoCmd.Flags().IntVar(&demoCount, "count", 10, "number of sample associates")
	DemoCmd.Flags().StringVar(&demoOutput, "output", "", "output path (no-op, PDF rendering out of scope)")
	DemoCmd.Flags().Int64Var(&demoSeed, "seed", 1, "random seed for the sample roster")
}

func printDaySummary(day *domain.DaySchedule) {
	total := day.TotalSlots()
	peak, peakSlot := 0, 0
	for slot := 0; slot < total; slot++ {
		if c := day.CoverageAt(slot); c > peak {
			peak = c
			peakSlot = slot
		}
	}
	fmt.Printf("  Peak coverage: %d workers at %s\n", peak, domain.FormatSlot(peakSlot, day.DayStartMinutes, day.SlotMinutes))
}
