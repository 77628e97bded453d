package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/placeholders/options"
	"github.com/jonwraymond/placeholders/svg"
)

func newRenderCmd() *cobra.Command {
	var (
		size    string
		dataURI bool
		values  = make(map[options.Option]*string)
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print a placeholder image",
		Long: `render resolves the flags exactly like the query parameters of the
image API and prints the SVG markup, or a data URI with --data-uri.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			for opt, v := range values {
				if cmd.Flags().Changed(opt.Name()) {
					q.Set(opt.Name(), *v)
				}
			}
			base := options.APIDefaults()
			base.DataURI = dataURI
			_, err := fmt.Fprintln(cmd.OutOrStdout(), svg.Render(options.Resolve(base, q, size)))
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&size, "size", "", "size shorthand: {w} or {w}x{h}")
	flags.BoolVar(&dataURI, "data-uri", false, "print a data URI instead of markup")
	for _, opt := range options.Options() {
		v := new(string)
		values[opt] = v
		flags.StringVar(v, opt.Name(), "", opt.Name()+" option")
	}
	return cmd
}
