package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"netenum/internal/config"
	"netenum/internal/output"
	"netenum/internal/ranges"
	"netenum/internal/ui"
	"netenum/internal/version"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
)

var running int32 = 1

func main() {
	// Input flags
	inputList := flag.String("iL", "", "Target list from file (one per line)")
	excludeFlag := flag.String("exclude", "", "Exclusion list (comma-separated)")
	excludeFile := flag.String("excludefile", "", "Exclusion list from file")

	// Ordering flags
	seedFlag := flag.Int64("seed", 0, "Deterministic ordering seed")
	shuffleFlag := flag.Bool("shuffle", false, "Emit addresses in shuffled order")
	linearFlag := flag.Bool("linear", false, "Emit ranges one after another, in order")

	// Output flags
	outputFile := flag.String("o", "-", "Output file (- for stdout)")
	jsonFlag := flag.Bool("json", false, "Emit JSONL records instead of plain addresses")

	// Config file
	configFile := flag.String("c", "", "Config file (YAML)")

	// UI mode flags
	quietFlag := flag.Bool("q", false, "Silent mode (no progress output)")
	quietAlias := flag.Bool("quiet", false, "Silent mode (alias for -q)")
	noTUI := flag.Bool("no-tui", false, "Disable TUI (text mode)")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("netenum version %s\n", version.Version)
		return
	}

	log.SetOutput(os.Stderr)

	// ── Apply config file (CLI flags override) ───────────────────────
	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	var cfg *config.Config
	if *configFile != "" {
		var cfgErr error
		cfg, cfgErr = config.LoadConfig(*configFile)
		if cfgErr != nil {
			log.Fatalf("failed to load config %s: %v", *configFile, cfgErr)
		}
		applyConfig(cfg, setFlags, seedFlag, shuffleFlag, linearFlag,
			outputFile, jsonFlag, quietFlag, noTUI)
	}

	// ── Resolve aliases ──────────────────────────────────────────────
	if *quietAlias {
		*quietFlag = true
	}

	// ── Build target list ────────────────────────────────────────────
	var targetList []string
	if cfg != nil {
		targetList = append(targetList, cfg.Targets.Include...)
	}
	targetList = append(targetList, flag.Args()...)
	if *inputList != "" {
		lines, err := readLines(*inputList)
		if err != nil {
			log.Fatalf("failed to read target list: %v", err)
		}
		targetList = append(targetList, lines...)
	}
	if len(targetList) == 0 && !isatty.IsTerminal(os.Stdin.Fd()) {
		lines, err := scanLines(os.Stdin)
		if err != nil {
			log.Fatalf("failed to read targets from stdin: %v", err)
		}
		targetList = append(targetList, lines...)
	}
	if len(targetList) == 0 {
		log.Fatal("no targets specified (use positional args, -iL, -c, or pipe to stdin)")
	}

	// ── Build exclusion list ──────────────────────────────────────────
	var excludeList []string
	if cfg != nil {
		excludeList = append(excludeList, cfg.Targets.Exclude...)
	}
	if *excludeFlag != "" {
		excludeList = append(excludeList, strings.Split(*excludeFlag, ",")...)
	}
	if *excludeFile != "" {
		lines, err := readLines(*excludeFile)
		if err != nil {
			log.Fatalf("failed to read exclude file: %v", err)
		}
		excludeList = append(excludeList, lines...)
	}

	// ── Normalize targets ─────────────────────────────────────────────
	set, err := ranges.Normalize(targetList)
	if err != nil {
		log.Fatalf("invalid targets: %v", err)
	}
	if set.Len() == 0 {
		log.Fatal("target list is empty after normalization")
	}

	// ── Ordering mode ─────────────────────────────────────────────────
	order := config.OrderInterleave
	if cfg != nil && cfg.Enum.Order != "" {
		order = cfg.Enum.Order
	}
	if *shuffleFlag {
		order = config.OrderShuffle
	}
	if *linearFlag {
		order = config.OrderLinear
	}

	var enum ranges.Enumerator
	var sched *ranges.Scheduler
	switch order {
	case config.OrderLinear:
		enum = ranges.NewLinear(set)
	case config.OrderShuffle:
		sh, err := ranges.NewShuffled(set, *seedFlag)
		if err != nil {
			log.Fatalf("shuffle: %v", err)
		}
		enum = sh
	default:
		var opts []ranges.SchedulerOption
		if *seedFlag != 0 {
			opts = append(opts, ranges.WithSeed(*seedFlag))
		}
		sched = ranges.NewScheduler(set, opts...)
		enum = sched
	}

	if len(excludeList) > 0 {
		tree, err := ranges.NewExcludeTree(excludeList)
		if err != nil {
			log.Fatalf("invalid exclusions: %v", err)
		}
		enum = ranges.Filter(enum, tree)
	}

	// ── Output ────────────────────────────────────────────────────────
	format := "text"
	if *jsonFlag {
		format = "jsonl"
	}

	stdoutOutput := *outputFile == "-" || *outputFile == ""
	sink := output.NewSink()
	if stdoutOutput {
		if format == "jsonl" {
			sink.Add(output.NewJSONLWriter(os.Stdout))
		} else {
			sink.Add(output.NewLineWriter(os.Stdout))
		}
	} else {
		fw, err := output.NewFileWriter(*outputFile, format)
		if err != nil {
			log.Fatalf("failed to open output file: %v", err)
		}
		sink.Add(fw)
	}

	// ── UI mode ───────────────────────────────────────────────────────
	var uiMode ui.Mode
	if *quietFlag {
		uiMode = ui.ModeSilent
	} else if *noTUI || stdoutOutput || !isatty.IsTerminal(os.Stdout.Fd()) {
		// bubbletea renders to stdout, which carries addresses when no
		// output file is set
		uiMode = ui.ModeText
	} else {
		uiMode = ui.ModeTUI
	}

	// ── Progress totals ───────────────────────────────────────────────
	totalF := 0x1p128
	if t, ok := set.Total(); ok {
		totalF = t.Float64()
	}
	start := time.Now()
	var emitted uint64

	collectStats := func() ui.EnumStats {
		e := atomic.LoadUint64(&emitted)
		elapsed := time.Since(start)
		stats := ui.EnumStats{
			Emitted:  e,
			Total:    totalF,
			Progress: float64(e) / totalF,
			Rate:     float64(e) / elapsed.Seconds(),
			Elapsed:  elapsed,
		}
		if sched != nil {
			for i := 0; i < sched.Len(); i++ {
				r, cnt := sched.RangeEmitted(i)
				n, ok := cnt.Uint64()
				if !ok {
					n = ^uint64(0)
				}
				share := 1.0
				if sz, ok := r.Size(); ok {
					share = sz.Float64() / totalF
				}
				stats.Ranges = append(stats.Ranges, ui.RangeStat{
					Label:   r.String(),
					Emitted: n,
					Share:   share,
				})
			}
		}
		return stats
	}

	// ── Signals ───────────────────────────────────────────────────────
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		atomic.StoreInt32(&running, 0)
	}()

	// ── Enumeration loop ──────────────────────────────────────────────
	g, _ := errgroup.WithContext(context.Background())
	enumDone := make(chan struct{})
	g.Go(func() error {
		defer close(enumDone)
		for atomic.LoadInt32(&running) == 1 {
			addr, ok := enum.Next()
			if !ok {
				break
			}
			rec := output.Record{IP: addr.String(), Family: addr.Family().String()}
			if err := sink.Write(&rec); err != nil {
				return err
			}
			atomic.AddUint64(&emitted, 1)
		}
		return nil
	})

	// ── Run UI ────────────────────────────────────────────────────────
	switch uiMode {
	case ui.ModeTUI:
		model := ui.NewModel(order, set.Len(), &running)
		program := tea.NewProgram(model, tea.WithAltScreen())

		go func() {
			statsTicker := time.NewTicker(250 * time.Millisecond)
			defer statsTicker.Stop()
			for {
				select {
				case <-enumDone:
					program.Send(ui.EnumDone{})
					return
				case <-statsTicker.C:
					program.Send(collectStats())
				}
			}
		}()

		if _, err := program.Run(); err != nil {
			log.Fatalf("ui: %v", err)
		}
		atomic.StoreInt32(&running, 0)

	case ui.ModeText:
		textPrinter := &ui.TextPrinter{Out: os.Stderr}
		statsTicker := time.NewTicker(time.Second)
	textLoop:
		for {
			select {
			case <-enumDone:
				break textLoop
			case <-statsTicker.C:
				textPrinter.PrintStats(collectStats())
			}
		}
		statsTicker.Stop()
		textPrinter.PrintDone(collectStats())

	case ui.ModeSilent:
		<-enumDone
	}

	// ── Cleanup ───────────────────────────────────────────────────────
	atomic.StoreInt32(&running, 0)
	signal.Stop(sigs)

	if err := g.Wait(); err != nil {
		log.Fatalf("enumeration failed: %v", err)
	}
	if err := sink.Close(); err != nil {
		log.Fatalf("failed to flush output: %v", err)
	}
}

// applyConfig copies config file values into flag variables, skipping any
// flag the user set explicitly on the command line.
func applyConfig(cfg *config.Config, set map[string]bool,
	seedFlag *int64, shuffleFlag, linearFlag *bool,
	outputFile *string, jsonFlag, quietFlag, noTUI *bool,
) {
	e := cfg.Enum
	o := cfg.Output

	if !set["seed"] && e.Seed != 0 {
		*seedFlag = e.Seed
	}
	if !set["shuffle"] && !set["linear"] {
		switch e.Order {
		case config.OrderShuffle:
			*shuffleFlag = true
		case config.OrderLinear:
			*linearFlag = true
		}
	}
	if !set["o"] && o.File != "" {
		*outputFile = o.File
	}
	if !set["json"] && o.Format == "jsonl" {
		*jsonFlag = true
	}
	if !set["q"] && !set["quiet"] && o.Quiet {
		*quietFlag = true
	}
	if !set["no-tui"] && o.NoTUI {
		*noTUI = true
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scanLines(f)
}

func scanLines(f *os.File) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
