package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dipplestix/3cbsolver/internal/config"
	"github.com/dipplestix/3cbsolver/internal/deck"
	"github.com/dipplestix/3cbsolver/internal/game"
	"github.com/dipplestix/3cbsolver/internal/solver"
)

// Exit codes: 0 success, 1 unknown deck or illegal input, 2 internal
// invariant violation.
const (
	exitOK = iota
	exitUsage
	exitInternal
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()
	os.Exit(run(flag.Args()))
}

func run(args []string) int {
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return exitUsage
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return exitInternal
	}
	defer logger.Sync()

	if len(args) == 0 {
		usage()
		return exitUsage
	}

	sv := solver.New(solver.Config{
		StartingLife:  cfg.Solver.StartingLife,
		TurnCap:       cfg.Solver.TurnCap,
		MaxDepth:      cfg.Solver.MaxDepth,
		NodeBudget:    cfg.Solver.NodeBudget,
		Timeout:       cfg.Solver.Timeout,
		TableCapacity: cfg.Solver.TableCapacity,
	}, logger)
	loadSnapshot(sv, cfg.Solver.SnapshotPath, logger)

	ctx := context.Background()
	switch args[0] {
	case "solve":
		return cmdSolve(ctx, sv, args[1:], false)
	case "show":
		return cmdSolve(ctx, sv, args[1:], true)
	case "goldfish":
		return cmdGoldfish(ctx, sv, args[1:])
	case "metagame":
		return cmdMetagame(ctx, sv, cfg.Solver.SnapshotPath, logger)
	case "list":
		return cmdList()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", args[0])
		usage()
		return exitUsage
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `3cbsolver %s - perfect-play solver for Three Card Blind

Usage:
  solver solve <deck1> <deck2> [first]   solve a matchup (first: 0 or 1)
  solver show <deck1> <deck2> [first]    solve and print the optimal line
  solver goldfish <deck> [turns]         fastest kill against an empty seat
  solver metagame                        payoff matrix over all decks
  solver list                            registered decks
`, version)
}

func cmdSolve(ctx context.Context, sv *solver.Solver, args []string, showLine bool) int {
	if len(args) < 2 {
		usage()
		return exitUsage
	}
	d1, err := deck.Lookup(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	d2, err := deck.Lookup(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	first := game.PlayerID(0)
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil || (n != 0 && n != 1) {
			fmt.Fprintf(os.Stderr, "first mover must be 0 or 1, got %q\n", args[2])
			return exitUsage
		}
		first = game.PlayerID(n)
	}

	res, err := sv.Solve(ctx, solver.Request{
		Hands: [2][]game.CardID{d1.Cards, d2.Cards},
		First: first,
	})
	if err != nil {
		return reportError(err)
	}

	fmt.Printf("%s vs %s (first mover: P%d)\n", d1.Description, d2.Description, first+1)
	if res.Partial {
		fmt.Printf("Result: unresolved (budget exhausted after %d nodes); best bound %+d\n",
			res.Nodes, res.Value)
		return exitOK
	}
	switch res.Value {
	case 1:
		fmt.Printf("Result: P%d wins\n", first+1)
	case -1:
		fmt.Printf("Result: P%d wins\n", first.Opponent()+1)
	default:
		fmt.Println("Result: draw")
	}
	fmt.Printf("Nodes: %d  Elapsed: %s\n", res.Nodes, res.Elapsed)
	if showLine {
		fmt.Println("\nPrincipal variation:")
		for i, step := range res.PV {
			fmt.Printf("  %3d. %s\n", i+1, step.Action)
		}
	}
	return exitOK
}

func cmdGoldfish(ctx context.Context, sv *solver.Solver, args []string) int {
	if len(args) < 1 {
		usage()
		return exitUsage
	}
	d, err := deck.Lookup(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	turns := 10
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "turns must be a positive integer, got %q\n", args[1])
			return exitUsage
		}
		turns = n
	}
	res, err := sv.Goldfish(ctx, d.Cards, turns)
	if err != nil {
		return reportError(err)
	}
	fmt.Printf("Goldfishing %s (%d turns)\n", d.Description, turns)
	if res.KillTurn == 0 {
		fmt.Println("No kill within the window")
		return exitOK
	}
	fmt.Printf("Kill on turn %d\n", res.KillTurn)
	for i, step := range res.Line {
		fmt.Printf("  %3d. %s\n", i+1, step.Action)
	}
	return exitOK
}

func cmdMetagame(ctx context.Context, sv *solver.Solver, snapshotPath string, logger *zap.Logger) int {
	decks := deck.All()
	hands := make([]solver.NamedHand, len(decks))
	for i, d := range decks {
		hands[i] = solver.NamedHand{Name: d.Name, Cards: d.Cards}
	}
	res, err := sv.PayoffMatrix(ctx, hands)
	if err != nil {
		return reportError(err)
	}

	fmt.Printf("%-12s", "")
	for _, name := range res.Decks {
		fmt.Printf("%10s", name)
	}
	fmt.Println()
	for i, name := range res.Decks {
		fmt.Printf("%-12s", name)
		for j := range res.Decks {
			cell := fmt.Sprintf("%+d", res.Values[i][j])
			if res.Partial[i][j] {
				cell += "?"
			}
			fmt.Printf("%10s", cell)
		}
		fmt.Println()
	}
	saveSnapshot(sv, snapshotPath, logger)
	return exitOK
}

func cmdList() int {
	for _, d := range deck.All() {
		fmt.Printf("%-12s %s\n", d.Name, d.Description)
	}
	return exitOK
}

func reportError(err error) int {
	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, game.ErrInvariantViolation) || errors.Is(err, game.ErrIllegalAction) {
		return exitInternal
	}
	return exitUsage
}

func loadSnapshot(sv *solver.Solver, path string, logger *zap.Logger) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	if err := sv.LoadSnapshot(f); err != nil {
		if errors.Is(err, solver.ErrCatalogMismatch) {
			logger.Warn("discarding transposition snapshot", zap.Error(err))
		} else {
			logger.Warn("failed to load transposition snapshot", zap.Error(err))
		}
	}
}

func saveSnapshot(sv *solver.Solver, path string, logger *zap.Logger) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		logger.Warn("failed to write transposition snapshot", zap.Error(err))
		return
	}
	defer f.Close()
	if err := sv.SaveSnapshot(f, version); err != nil {
		logger.Warn("failed to write transposition snapshot", zap.Error(err))
	}
}

// initLogger initializes the zap logger based on configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
