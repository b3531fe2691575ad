package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/starwave/config"
	"github.com/user/starwave/internal/economy"
	"github.com/user/starwave/internal/game"
	"github.com/user/starwave/internal/types"
)

var (
	simWeeks  int
	simName   string
	simStage  string
	simGenre  string
	simActive bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless career simulation",
	Long: `Simulate runs the career engine for a number of weeks without the HTTP API,
printing a week-by-week report. With --active the simulated artist also
records, masters and releases songs and takes every sponsorship deal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}

		manager, err := buildManager(cfg, zap.NewNop())
		if err != nil {
			return err
		}

		ctx := context.Background()

		if !manager.HasCareer() {
			if _, err := manager.NewCareer(ctx, simName, simStage, simGenre); err != nil {
				return err
			}
			color.New(color.FgCyan, color.Bold).Printf("Started a new career: %s (%s)\n", simStage, simGenre)
		}

		rng := rand.New(rand.NewSource(int64(simWeeks) + 1))
		releasePlatform := 0

		for week := 0; week < simWeeks; week++ {
			if err := resolvePending(manager); err != nil {
				return err
			}

			if simActive {
				releasePlatform = act(ctx, manager, cfg, rng, releasePlatform)
			}

			result, err := manager.AdvanceWeek(ctx)
			if err != nil {
				return err
			}
			printWeek(result)
		}

		return printReport(ctx, manager)
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simWeeks, "weeks", 48, "Number of weeks to simulate")
	simulateCmd.Flags().StringVar(&simName, "name", "Alex Rivera", "Artist name for a new career")
	simulateCmd.Flags().StringVar(&simStage, "stage", "NOVA", "Stage name for a new career")
	simulateCmd.Flags().StringVar(&simGenre, "genre", "pop", "Genre for a new career")
	simulateCmd.Flags().BoolVar(&simActive, "active", true, "Record, release and take deals automatically")
	rootCmd.AddCommand(simulateCmd)
}

// resolvePending answers any blocking choice with the first option.
func resolvePending(manager *game.CareerManager) error {
	snap, err := manager.Snapshot()
	if err != nil {
		return err
	}

	if snap.PendingEvent != nil {
		color.New(color.FgYellow).Printf("  event: %s\n", snap.PendingEvent.Title)
		outcome, err := manager.ResolveEvent(0)
		if err != nil {
			return err
		}
		fmt.Printf("    %s\n", outcome.Text)
	}

	if snap.PendingInteraction != nil {
		if _, err := manager.ResolveInteraction(0); err != nil {
			return err
		}
	}

	return nil
}

// act drives the simulated artist: keep one song in the pipeline, release it
// on a rotating platform and accept whatever deal is on the table.
func act(ctx context.Context, manager *game.CareerManager, cfg config.Config, rng *rand.Rand, platformIdx int) int {
	snap, err := manager.Snapshot()
	if err != nil {
		return platformIdx
	}

	sessionCost := cfg.Game.StudioRent + cfg.Game.ReleaseFee

	if len(snap.Unreleased) == 0 && snap.Player.Money > sessionCost {
		title := fmt.Sprintf("Track %02d", len(snap.Released)+1)
		if _, err := manager.DraftSong(ctx, game.DraftInput{Title: title}); err == nil {
			taps := make([]float64, economy.TapsPerSession)
			for i := range taps {
				taps[i] = 40 + rng.Float64()*60
			}
			if song, err := manager.MasterSong(ctx, title, taps); err == nil {
				platforms := types.Platforms()
				platform := platforms[platformIdx%len(platforms)]
				platformIdx++
				if result, err := manager.ReleaseSong(ctx, song.ID, platform); err == nil {
					color.New(color.FgGreen).Printf("  released %q (quality %d) on %s: +%d fans\n",
						song.Title, song.Quality, platform, result.FanGain)
				}
			}
		}
	}

	for _, offer := range snap.Offers {
		if accepted, err := manager.AcceptOffer(offer.ID); err == nil {
			color.New(color.FgMagenta).Printf("  deal with %s: +$%.0f\n", accepted.Brand, accepted.Payout)
		}
	}

	return platformIdx
}

func printWeek(result *game.AdvanceResult) {
	if result.Settled {
		color.New(color.FgCyan, color.Bold).Printf("%s  month closed: +$%.2f royalties, +%d fans\n",
			result.Date.Format("2006-01"), result.Royalties, result.FanGrowth)
		for _, award := range result.NewAwards {
			color.New(color.FgYellow, color.Bold).Printf("  award: %s (%s)\n", award.Category, award.Reason)
		}
		if result.NewOffer != nil {
			color.New(color.FgMagenta).Printf("  offer: %s ($%.0f)\n", result.NewOffer.Brand, result.NewOffer.Payout)
		}
		return
	}
	fmt.Printf("  week %d: +%d streams, +%d fans\n", result.Week, result.StreamGain, result.FanGrowth)
}

func printReport(ctx context.Context, manager *game.CareerManager) error {
	snap, err := manager.Snapshot()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Println("\n=== Career Report ===")
	fmt.Printf("Artist:    %s\n", snap.Player.StageName)
	fmt.Printf("Fans:      %d\n", snap.Player.Fans)
	fmt.Printf("Fame:      %d\n", snap.Player.Fame)
	fmt.Printf("Money:     $%.2f\n", snap.Player.Money)
	fmt.Printf("Released:  %d songs\n", len(snap.Released))
	fmt.Printf("Awards:    %d\n", len(snap.Awards))
	for _, platform := range types.Platforms() {
		fmt.Printf("  %-10s %d followers\n", platform, snap.Player.Followers[platform])
	}

	summary, err := manager.CareerSummary(ctx)
	if err != nil {
		return err
	}
	color.New(color.FgCyan).Printf("\n%s\n", summary)
	return nil
}
