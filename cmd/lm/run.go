package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"

	"code.bbsnetwork.io/lm/config"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/metrics"
	"code.bbsnetwork.io/lm/protocol"
	"code.bbsnetwork.io/lm/scenario"

	"github.com/jessevdk/go-flags"
)

var ErrScenariosFailed = errors.New("some scenarios failed")

type RunCmd struct {
	HomeFlag

	Watch   bool `short:"w" long:"watch" description:"Run a scenario again every time its file changes"`
	Verbose bool `short:"v" long:"verbose" description:"Print every step, not only the failing ones"`
	Help    bool `short:"h" long:"help" description:"Show this help message"`
}

var runCmd RunCmd

func Run(ctx context.Context, parser *flags.Parser) error {
	runCmd = RunCmd{
		HomeFlag: NewHomeFlag(),
	}

	short := "Run liquidity mining scenarios"
	long := `Run the scenario files given as arguments. Without arguments, the
scenarios of the home directory are run, or the bundled ones if the home
has none.`
	_, err := parser.AddCommand("run", short, long, &runCmd)
	return err
}

func (opts *RunCmd) Execute(args []string) error {
	if opts.Help {
		return &flags.Error{
			Type:    flags.ErrHelp,
			Message: "lm run subcommand help",
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, hasConfig, err := opts.loadConfig()
	if err != nil {
		return err
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	srv, err := metrics.Start(log, cfg.Metrics)
	if err != nil {
		return err
	}
	if srv != nil {
		log.Info("serving metrics", logging.Int("port", cfg.Metrics.Port))
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), cfg.Metrics.ShutdownTimeout.Get())
			defer scancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	runner := scenario.NewRunner(log, cfg)
	if hasConfig {
		if err := watchConfig(ctx, log, opts.Home, runner); err != nil {
			return err
		}
	}

	files, err := opts.scenarioFiles(args)
	if err != nil {
		return err
	}

	rep := &reporter{w: os.Stdout, verbose: opts.Verbose}
	// the runner is not safe for concurrent runs
	var mu sync.Mutex
	runFile := func(name string, sc *scenario.Scenario, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			rep.Err(name, err)
			return
		}
		report, err := runner.Run(ctx, sc)
		if err != nil {
			rep.Err(name, err)
			return
		}
		rep.Dump(name, report)
	}

	if len(files) == 0 {
		all, err := scenario.Examples()
		if err != nil {
			return err
		}
		for _, name := range scenario.ExampleNames() {
			runFile(name, all[name], nil)
		}
	}
	for _, f := range files {
		sc, err := scenario.Load(f)
		runFile(f, sc, err)
	}

	if !opts.Watch || len(files) == 0 {
		if rep.HasError() {
			return ErrScenariosFailed
		}
		return nil
	}

	var wg sync.WaitGroup
	for _, f := range files {
		f := f
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := scenario.Watch(ctx, log, f, func(sc *scenario.Scenario, err error) {
				runFile(f, sc, err)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("stopped watching scenario", logging.String("path", f), logging.Error(err))
			}
		}()
	}
	wg.Wait()
	return nil
}

func (opts *RunCmd) loadConfig() (config.Config, bool, error) {
	cfg, err := config.Read(opts.Home)
	if errors.Is(err, fs.ErrNotExist) {
		return config.NewDefaultConfig(), false, nil
	}
	if err != nil {
		return config.Config{}, false, err
	}
	return *cfg, true, nil
}

func (opts *RunCmd) scenarioFiles(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := filepath.Glob(filepath.Join(opts.Home, scenariosDir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("could not list scenarios: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// watchConfig applies configuration changes to the deployment of the
// running scenario. Changes are picked up on the next clock tick.
func watchConfig(ctx context.Context, log *logging.Logger, home string, runner *scenario.Runner) error {
	w, err := config.NewFromFile(ctx, log, home)
	if err != nil {
		return err
	}

	var current *protocol.Services
	runner.OnDeploy(func(svcs *protocol.Services) {
		current = svcs
		svcs.Time.NotifyOnTick(w.OnTimeUpdate)
	})
	w.OnConfigUpdate(
		runner.ReloadConf,
		func(cfg config.Config) {
			if current != nil {
				current.ReloadConf(cfg)
			}
		},
	)
	return nil
}
