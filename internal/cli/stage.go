package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/harvester/pkg/errors"
	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/store"
)

// stageCommand creates the stage management command.
func (c *CLI) stageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Inspect or reset worker checkpoints",
	}

	cmd.AddCommand(c.stageListCommand())
	cmd.AddCommand(c.stageResetCommand())

	return cmd
}

func (c *CLI) stageListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the last checkpointed keyword of every worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				stages, err := st.Stages().List(ctx)
				if err != nil {
					return errors.Wrap(errors.ErrCodeStore, err, "list stages")
				}
				if len(stages) == 0 {
					printInfo("No checkpoints recorded")
					printNextStep("Start crawling", "harvester run")
					return nil
				}
				fmt.Println(renderTable([]string{"Worker", "Keyword", "Discovered"}, stageRows(stages)))
				return nil
			})
		},
	}
}

func (c *CLI) stageResetCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:       "reset [worker...]",
		Short:     "Delete checkpoints so workers restart from their seed keyword",
		ValidArgs: sourceNames(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, err := resetTargets(args, all)
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				for _, w := range workers {
					if err := st.Stages().Delete(ctx, w); err != nil {
						return errors.Wrap(errors.ErrCodeStore, err, "reset %s", w)
					}
				}
				printSuccess("Reset %s", joinSources(workers))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reset every worker")

	return cmd
}

func resetTargets(args []string, all bool) ([]model.Source, error) {
	if all {
		return model.Sources(), nil
	}
	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "name at least one worker or pass --all")
	}
	workers := make([]model.Source, 0, len(args))
	for _, a := range args {
		src, err := model.ParseSource(a)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "reset")
		}
		workers = append(workers, src)
	}
	return workers, nil
}

func stageRows(stages []model.Stage) [][]string {
	rows := make([][]string, 0, len(stages))
	for _, s := range stages {
		rows = append(rows, []string{s.Worker.String(), s.LastKeyword.Value, formatStamp(s.LastKeyword.Timestamp)})
	}
	return rows
}

// formatStamp renders a keyword timestamp. Zero marks a seed keyword.
func formatStamp(ms int64) string {
	if ms == 0 {
		return "seed"
	}
	return time.UnixMilli(ms).UTC().Format(time.DateTime)
}

// withStore loads the configuration, opens the store for fn and closes it.
func (c *CLI) withStore(ctx context.Context, fn func(context.Context, store.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := c.connectStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))
	return fn(ctx, st)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
