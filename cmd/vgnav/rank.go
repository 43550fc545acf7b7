package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vugu/vgnav"
	"github.com/vugu/vgnav/routefile"
)

func rankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rank <routes.yaml>",
		Short: "Print routes in evaluation order",
		Long: `Print each level of the route file with the routes in the order they are
tried, highest score first. Nested levels follow the route they belong to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := routefile.Load(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			return vgnav.Walk(f.Basepath, f.Declarations(), func(depth int, basepath string, rs *vgnav.RouteSet) error {
				indent := strings.Repeat("  ", depth)
				fmt.Fprintf(w, "%s%s\n", indent, basepath)
				for _, rr := range rs.Ranked() {
					fmt.Fprintf(w, "%s  %4d  %-32s %s\n", indent, rr.Score, patternLabel(rr.Route), targetLabel(rr.Route))
				}
				return nil
			})
		},
	}
}

func patternLabel(r vgnav.Route) string {
	if r.IsDefault() {
		return "(default)"
	}
	return r.Path
}

func targetLabel(r vgnav.Route) string {
	d := r.Value.(*vgnav.Declaration)
	if d.Redirect != nil {
		return "-> " + d.Redirect.To
	}
	if d.Handler == nil {
		return ""
	}
	return fmt.Sprint(d.Handler)
}
