package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/harvester/pkg/errors"
	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/store"
)

// authorsCommand creates the author lookup command.
func (c *CLI) authorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authors",
		Short: "Look up harvested authors",
	}
	cmd.AddCommand(c.authorsShowCommand())
	return cmd
}

func (c *CLI) authorsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <email>",
		Short: "Show an author and their publications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				a, err := st.Authors().FindByEmail(ctx, email)
				if err != nil {
					return errors.Wrap(errors.ErrCodeStore, err, "find author")
				}
				if a == nil {
					return errors.New(errors.ErrCodeNotFound, "no author with email %s", email)
				}
				printAuthor(a)
				return nil
			})
		},
	}
}

func printAuthor(a *model.Author) {
	fmt.Println(StyleTitle.Render(a.Email))
	for _, kv := range [][2]string{
		{"Name", a.Name},
		{"Username", a.Username},
		{"URL", a.URL},
		{"Blog", a.Blog},
		{"Location", a.Location},
	} {
		if kv[1] != "" {
			printKeyValue(kv[0], kv[1])
		}
	}

	rows := make([][]string, 0, len(a.Publications))
	for _, p := range a.Publications {
		rows = append(rows, []string{p.Name, p.Source.String()})
	}
	fmt.Println(renderTable([]string{"Publication", "Source"}, rows))
}
