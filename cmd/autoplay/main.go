// Package main is the headless automated runner, used for soak-testing
// the turn cycle without a terminal attached.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hollowdeep/hollowdeep/internal/config"
	"github.com/hollowdeep/hollowdeep/internal/core"
	"github.com/hollowdeep/hollowdeep/internal/dispatch"
	"github.com/hollowdeep/hollowdeep/internal/game"
	"github.com/hollowdeep/hollowdeep/internal/mode"
	"github.com/hollowdeep/hollowdeep/internal/telemetry"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	turns      = flag.Int("turns", 0, "override configured turn budget")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *turns > 0 {
		cfg.Autoplay.Turns = *turns
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	world, err := game.NewWorld(cfg, logger, telemetry.NoopTracer())
	if err != nil {
		logger.Fatal("failed to assemble world", zap.Error(err))
	}
	defer world.Close()

	if err := autoplay(ctx, world, cfg.Autoplay.Turns); err != nil {
		logger.Fatal("autoplay failed", zap.Error(err))
	}

	for _, msg := range world.Msgs.Tail(20) {
		fmt.Printf("[%3d] %s\n", msg.Turn, msg.Text)
	}
	fmt.Printf("finished at turn %d in mode %s\n", world.Sched.TurnNumber(), world.Store.Current())
}

// autoplay issues one automated action per frame until the turn budget
// runs out or the session reaches a terminal mode.
func autoplay(ctx context.Context, world *game.World, budget int) error {
	actions := []string{"attack", "wait", "attack", "rest", "attack", "travel"}

	for frame := 0; world.Sched.TurnNumber() <= budget; frame++ {
		if world.Store.Current() == mode.DeathScreen {
			return nil
		}

		action := actions[frame%len(actions)]
		world.Core.ProcessInput(action, "")
		if !world.Core.ShouldAdvanceWorld(core.InputAutomated, action, "", frame == 0) {
			continue
		}
		for i := 0; i < 8; i++ {
			result := world.Core.AdvanceWorld(ctx)
			if result.FinalizerErr != nil {
				return result.FinalizerErr
			}
			if result.Blocked != dispatch.BlockNone || result.PlayerDied {
				break
			}
			if !world.Bridge.IsEnemyMode() {
				break
			}
		}
	}
	return nil
}
