package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-guigen/pkg/widgets"
)

func newKindsCmd(a *app) *cobra.Command {
	var catalogues []string
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the widget kinds directives may name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := widgets.NewRegistry()
			for _, path := range append(append([]string(nil), a.config.Catalogues...), catalogues...) {
				if err := loadCatalogue(registry, path); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tACCEPTS\tPARAMETERS\tRESULT")
			for _, kind := range registry.Kinds() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kind.Name, accepts(kind), params(kind), kind.Result.Type)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringArrayVar(&catalogues, "catalogue", nil, "widget catalogue file or directory; repeatable")
	return cmd
}

// accepts lists the field categories, narrowed by the operand type if any.
func accepts(kind *widgets.Kind) string {
	names := make([]string, 0, len(kind.Accepts))
	for _, c := range kind.Accepts {
		names = append(names, c.String())
	}
	out := strings.Join(names, ",")
	if kind.Operand != "" {
		out += " of " + kind.Operand
	}
	return out
}

// params lists parameter names, required ones marked with '*'.
func params(kind *widgets.Kind) string {
	var out []string
	for _, name := range kind.ParamNames() {
		spec, _, _ := kind.Param(name)
		if spec.Required {
			name += "*"
		}
		out = append(out, name)
	}
	return strings.Join(out, ", ")
}
