package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	parking "github.com/123Haben/parking-place"
	"github.com/123Haben/parking-place/pkg/router"
)

func routesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long:  `Print every route with its name, bound view and browser URL under the configured history mode and base path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			r, err := parking.NewRouter(
				router.WithHistory(cfg.Server.HistoryMode()),
				router.WithBase(cfg.Server.Base),
			)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tNAME\tVIEW\tURL")
			for _, route := range r.Table().Routes() {
				href, err := r.Href(route.Name, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%T\t%s\n", route.Path, route.Name, route.Component, href)
			}
			return w.Flush()
		},
	}
}
