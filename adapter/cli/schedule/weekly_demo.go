package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fulfillhq/shiftplan/internal/samplegen"
	"github.com/fulfillhq/shiftplan/internal/scheduling/application/weekly"
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

var (
	weeklyDemoDays         int
	weeklyDemoPattern      string
	weeklyDemoCount        int
	weeklyDemoSeed         int64
	weeklyDemoMorningLimit int
	weeklyDemoDayLimit     int
	weeklyDemoClosingLimit int
	weeklyDemoRealistic    bool
	weeklyDemoVariety      bool
)

// WeeklyDemoCmd runs a multi-day demo schedule against a sample roster.
var WeeklyDemoCmd = &cobra.Command{
	Use:   "weekly-demo",
	Short: "Schedule a demo week against a sample roster",
	Long: `Builds a sample roster and solves a full week via the weekly
coordinator, printing fairness metrics and per-day coverage.

Examples:
  shiftplan weekly-demo --days 7 --pattern TWO_CONSECUTIVE
  shiftplan weekly-demo --count 20 --seed 3 --realistic`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		dates := make([]string, weeklyDemoDays)
		for i := range dates {
			dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
		}

		workers := samplegen.NewGenerator(weeklyDemoSeed).Associates(weeklyDemoCount, dates)

		req := domain.WeeklyRequest{
			StartDate: dates[0],
			EndDate:   dates[len(dates)-1],
			Workers:   workers,
			RoleCaps: map[domain.Role]int{
				domain.RolePicking: 999,
				domain.RoleGMDSM:   2,
				domain.RoleStaging: 3,
			},
			DaysOffPattern: domain.DaysOffPattern(weeklyDemoPattern),
		}

		if weeklyDemoRealistic || weeklyDemoVariety {
			req.ShiftBlocks = []domain.ShiftBlockConfig{
				{Name: "morning", Start: 0, End: 16, MaxAssociates: weeklyDemoMorningLimit},
				{Name: "day", Start: 16, End: 48, MaxAssociates: weeklyDemoDayLimit},
				{Name: "closing", Start: 48, End: 68, MaxAssociates: weeklyDemoClosingLimit},
			}
		}
		req = req.WithDefaults()

		coordinator := weekly.NewCoordinator()
		cfg := domain.DefaultDemandAwareConfig()
		schedule, stats := coordinator.SolveWeek(req, cfg)

		fmt.Printf("Weekly demo schedule: %s to %s (%d associates)\n", req.StartDate, req.EndDate, weeklyDemoCount)
		fmt.Println(strings.Repeat("-", 48))
		fmt.Printf("  Days solved:    %d\n", stats.DaysSolved)
		fmt.Printf("  CP fallbacks:   %d\n", stats.FallbackCount)
		fmt.Printf("  Total wall time: %s\n", time.Since(start))
		if schedule.Fairness != nil {
			fmt.Printf("  Avg weekly minutes: %.1f (min %d, max %d)\n",
				schedule.Fairness.AverageWeeklyMinutes, schedule.Fairness.MinWeeklyMinutes, schedule.Fairness.MaxWeeklyMinutes)
		}

		return nil
	},
}

func init() {
	WeeklyDemoCmd.Flags().IntVar(&weeklyDemoDays, "days", 7, "number of days in the demo week")
	WeeklyDemoCmd.Flags().StringVar(&weeklyDemoPattern, "pattern", string(domain.DaysOffTwoConsecutive), "days-off pattern (NONE, TWO_CONSECUTIVE, ONE_WEEKEND_DAY, EVERY_OTHER_DAY)")
	WeeklyDemoCmd.Flags().IntVar(&weeklyDemoCount, "count", 15, "number of sample associates")
	WeeklyDemoCmd.Flags().Int64Var(&weeklyDemoSeed, "seed", 1, "random seed for the sample roster")
	WeeklyDemoCmd.Flags().IntVar(&weeklyDemoMorningLimit, "morning-limit", 6, "max shift starts in the morning block, with --realistic")
	WeeklyDemoCmd.Flags().IntVar(&weeklyDemoDayLimit, "day-limit", 10, "max shift starts in the day block, with --realistic")
	WeeklyDemoCmd.Flags().IntVar(&weeklyDemoClosingLimit, "closing-limit", 4, "max shift starts in the closing block, with --realistic")
	WeeklyDemoCmd.Flags().BoolVar(&weeklyDemoVariety, "variety", false, "alias of --realistic, kept for compatibility")
	WeeklyDemoCmd.Flags().BoolVar(&weeklyDemoRealistic, "realistic", false, "apply shift-block start caps (morning/day/closing)")
}
