package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/harvester/pkg/crawl"
	"github.com/matzehuels/harvester/pkg/errors"
	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/store"
)

// keywordsCommand creates the keyword pool command.
func (c *CLI) keywordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Seed and inspect the shared keyword pool",
	}

	cmd.AddCommand(c.keywordsAddCommand())
	cmd.AddCommand(c.keywordsListCommand())

	return cmd
}

func (c *CLI) keywordsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <keyword>...",
		Short: "Add keywords to the pool",
		Long: `Add stamps each new keyword with the current time, so running workers
pick it up once their crawl reaches it. Existing keywords are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				added, err := addKeywords(ctx, st, args)
				if err != nil {
					return err
				}
				printSuccess("Added %d of %d keywords", added, len(args))
				return nil
			})
		},
	}
}

// addKeywords feeds values through the same sink the workers use.
func addKeywords(ctx context.Context, st store.Store, values []string) (int, error) {
	sink := crawl.NewKeywordSink(st.Keywords(), model.Source("cli"), crawl.DefaultStamper(), loggerFromContext(ctx))
	added, err := sink.Ingest(ctx, values)
	if err != nil {
		return added, errors.Wrap(errors.ErrCodeStore, err, "add keywords")
	}
	return added, nil
}

func (c *CLI) keywordsListCommand() *cobra.Command {
	var (
		since int64
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List keywords in crawl order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				kws, err := st.Keywords().Since(ctx, since, limit)
				if err != nil {
					return errors.Wrap(errors.ErrCodeStore, err, "list keywords")
				}
				if len(kws) == 0 {
					printInfo("No keywords at or after %d", since)
					return nil
				}
				rows := make([][]string, 0, len(kws))
				for _, k := range kws {
					rows = append(rows, []string{k.Value, itoa(k.Timestamp), formatStamp(k.Timestamp)})
				}
				fmt.Println(renderTable([]string{"Keyword", "Timestamp", "Discovered"}, rows))
				if total, err := st.Keywords().Count(ctx); err == nil {
					printDetail("%d shown of %d", len(kws), total)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&since, "since", 0, "only keywords stamped at or after this Unix millisecond timestamp")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum keywords to list (0 = all)")

	return cmd
}
