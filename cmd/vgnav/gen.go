package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vugu/vgnav/rgen"
	"github.com/vugu/vgnav/routefile"
)

func genCmd() *cobra.Command {
	var (
		dir          string
		packageName  string
		localPackage string
		recursive    bool
		stdout       bool
	)

	cmd := &cobra.Command{
		Use:   "gen [routes.yaml]",
		Short: "Generate 0_routes_vgen.go",
		Long: `Generate a MakeRoutes function returning []vgnav.Declaration.

With a route file the declarations follow the file, and the output goes next
to it unless --dir is given. Without one, --dir (default ".") is scanned for
.vugu components, one route per component.

Handlers named "sub/pkg.Type" are taken from that sub-package of the output
directory; its import path is detected from go.mod unless -p is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := rgen.New().
				SetPackageName(packageName).
				SetLocalPackage(localPackage).
				SetRecursive(recursive)

			var f *routefile.File
			if len(args) == 1 {
				var err error
				if f, err = routefile.Load(args[0]); err != nil {
					return err
				}
				g.SetRouteFile(f)
				if dir == "" {
					dir = filepath.Dir(args[0])
				}
			}
			if dir == "" {
				dir = "."
			}
			g.SetDir(dir)

			if stdout {
				if f == nil {
					return fmt.Errorf("--stdout needs a route file")
				}
				b, err := g.Render(f)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}

			slog.Debug("generating routes", "dir", dir, "recursive", recursive)
			if err := g.Generate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(dir, rgen.OutputFileName))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output (and scan) directory")
	cmd.Flags().StringVarP(&packageName, "package", "p", "", "The full package name of the output directory. If unspecified auto-detection will be attempted using go.mod")
	cmd.Flags().StringVar(&localPackage, "local-package", "", "Package clause of the generated file (default: directory name)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Recursively scan subdirectories")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the generated source instead of writing it")

	return cmd
}
