package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/vugu/vgnav"
	"github.com/vugu/vgnav/history"
	"github.com/vugu/vgnav/routefile"
)

var errNoMatch = errors.New("no route matched")

func matchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <routes.yaml> <url>",
		Short: "Resolve a URL against a route file",
		Long: `Resolve a URL against the route file and print every matched level with
its params, or the redirect target. Exits non-zero when nothing matches.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := routefile.Load(args[0])
			if err != nil {
				return err
			}
			loc, err := parseURL(args[1])
			if err != nil {
				return err
			}

			r := vgnav.New(nil, vgnav.WithLogger(slog.Default()), vgnav.WithUnmatchedWarnings())
			res, err := r.Resolve(f.Declarations(), f.Basepath, loc)

			w := cmd.OutOrStdout()
			for i, l := range res.Levels {
				pattern := l.Pattern
				if pattern == "" {
					pattern = "(default)"
				}
				fmt.Fprintf(w, "%d  %-32s %-16v uri=%s", i, pattern, l.Declaration.Handler, l.URI)
				for _, p := range l.Params.List() {
					fmt.Fprintf(w, " %s=%s", p.Key, p.Value)
				}
				fmt.Fprintln(w)
			}

			if rr, ok := vgnav.IsRedirect(err); ok {
				fmt.Fprintf(w, "redirect -> %s\n", rr.URI)
				return nil
			}
			if err != nil {
				return err
			}
			if len(res.Levels) == 0 {
				return errNoMatch
			}
			return nil
		},
	}
}

// parseURL accepts a full URL or just its path, query and fragment.
func parseURL(s string) (history.Location, error) {
	u, err := url.Parse(s)
	if err != nil {
		return history.Location{}, err
	}
	loc := history.Location{Pathname: history.NormalizePathname(u.EscapedPath())}
	if u.RawQuery != "" {
		loc.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		loc.Hash = "#" + u.EscapedFragment()
	}
	return loc, nil
}
