package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/harvester/internal/server"
	"github.com/matzehuels/harvester/pkg/cache"
	"github.com/matzehuels/harvester/pkg/config"
	"github.com/matzehuels/harvester/pkg/crawl"
	"github.com/matzehuels/harvester/pkg/errors"
	"github.com/matzehuels/harvester/pkg/metrics"
	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/observability"
	"github.com/matzehuels/harvester/pkg/sources"
	"github.com/matzehuels/harvester/pkg/store"
)

type runOptions struct {
	rounds     int
	statusAddr string
}

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [worker...]",
		Short: "Crawl registries until the keyword pool is exhausted",
		Long: `Run starts one crawl worker per registry and blocks until every worker
has exhausted the keyword pool or the process is interrupted.

Workers default to the WORKERS setting (comma-separated). Each worker
resumes from its last checkpoint.`,
		Example: `  # Crawl with the configured workers
  harvester run

  # Crawl npm only, three rounds, with a status endpoint
  harvester run npm --rounds 3 --status-addr :8080`,
		ValidArgs: sourceNames(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHarvest(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.rounds, "rounds", 0, "stop each worker after n rounds (0 = until exhausted)")
	cmd.Flags().StringVar(&opts.statusAddr, "status-addr", "", "serve /healthz, /stages and /metrics on this address (overrides STATUS_ADDR)")

	return cmd
}

func (c *CLI) runHarvest(ctx context.Context, workers []string, opts runOptions) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if len(workers) > 0 {
		cfg.Workers = workers
	}
	if opts.statusAddr != "" {
		cfg.StatusAddr = opts.statusAddr
	}

	if cfg.Paused {
		printWarning("Harvest is paused (HARVEST_PAUSED); no worker started")
		return nil
	}
	if len(cfg.Enabled()) == 0 {
		return errors.New(errors.ErrCodeConfig, "no worker defined: set WORKERS or name workers on the command line")
	}

	var st store.Store
	err = withSpinner(ctx, "Connecting to store", func() error {
		var err error
		st, err = c.connectStore(ctx, cfg)
		return err
	})
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))
	logger.Info("connected to store", "database", cfg.Database)

	respCache, err := c.newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer respCache.Close()

	m := metrics.New(prometheus.NewRegistry())
	m.Install()
	defer observability.Reset()

	engines := buildEngines(cfg, st, respCache, logger, opts.rounds)
	if len(engines) == 0 {
		return errors.New(errors.ErrCodeConfig, "no worker could start")
	}

	srvCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()
	var srvWG sync.WaitGroup
	if cfg.StatusAddr != "" {
		srv := server.New(st, cfg.Enabled(), m.Handler(), logger.WithPrefix("status"))
		srvWG.Add(1)
		go func() {
			defer srvWG.Done()
			if err := srv.ListenAndServe(srvCtx, cfg.StatusAddr); err != nil {
				logger.Error("status server failed", "err", err)
			}
		}()
	}

	prog := newProgress(logger)
	err = runEngines(ctx, engines)
	stopServer()
	srvWG.Wait()
	if err != nil {
		return err
	}

	prog.done("Harvest finished")
	if authors, err := st.Authors().Count(ctx); err == nil {
		keywords, _ := st.Keywords().Count(ctx)
		fmt.Println(formatCounts(authors, keywords))
	}
	return nil
}

// buildEngines creates an engine per enabled worker. A worker whose
// configuration is incomplete is logged and skipped.
func buildEngines(cfg config.Config, st store.Store, c cache.Cache, logger *log.Logger, rounds int) []*crawl.Engine {
	var engines []*crawl.Engine
	for _, name := range cfg.Enabled() {
		src, err := sources.New(name, cfg, c)
		if err != nil {
			logger.Error("worker disabled", "worker", name, "code", errors.GetCode(err), "err", err)
			continue
		}
		engines = append(engines, crawl.New(src, st,
			crawl.WithLogger(logger.WithPrefix(name.String())),
			crawl.WithMaxRounds(rounds),
		))
	}
	return engines
}

// runEngines runs every engine to completion. Workers are independent: one
// failing does not stop the others. The first failure is returned.
func runEngines(ctx context.Context, engines []*crawl.Engine) error {
	errs := make([]error, len(engines))
	var wg sync.WaitGroup
	for i, e := range engines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = e.Run(ctx)
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func sourceNames() []string {
	var names []string
	for _, s := range model.Sources() {
		names = append(names, s.String())
	}
	return names
}

func joinSources(srcs []model.Source) string {
	names := make([]string, len(srcs))
	for i, s := range srcs {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
