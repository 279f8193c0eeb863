package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suPer8Hu/ai-assistant/internal/chat"
)

func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the configured runtime can serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			lister, err := buildRegistry(cfg).Catalog(cfg.AIProvider)
			if err != nil {
				return err
			}

			res := chat.NewCatalog(lister, logger).List(cmd.Context())
			if res.Err != nil {
				return fmt.Errorf("list models: %w", res.Err)
			}
			out := cmd.OutOrStdout()
			if len(res.Models) == 0 {
				fmt.Fprintln(out, "no models installed")
				return nil
			}
			for _, m := range res.Models {
				fmt.Fprintln(out, m)
			}
			return nil
		},
	}
}
