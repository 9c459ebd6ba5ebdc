package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCommand creates the configuration command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the configuration as TOML with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			out, err := cfg.TOML()
			if err != nil {
				return err
			}
			fmt.Print(out)
			if enabled := cfg.Enabled(); len(enabled) > 0 {
				printDetail("Workers: %s", joinSources(enabled))
			} else {
				printWarning("No worker defined (WORKERS)")
			}
			for _, src := range cfg.Enabled() {
				if err := cfg.ValidateSource(src); err != nil {
					printWarning("%s will not start: %v", src, err)
				}
			}
			return nil
		},
	})
	return cmd
}
