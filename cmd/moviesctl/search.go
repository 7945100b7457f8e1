package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirilDora/movie-fullstack-app/pkg/client"
)

func newSearchCmd(a *app) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Look a title up in OMDb",
		Long: `Look a title up through the server's OMDb proxy. With --save the
result is toggled into your favorites.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			results, err := a.client().SearchMovies(cmd.Context(), title)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				if a.jsonOutput {
					return a.printJSON(results)
				}
				fmt.Fprintln(a.out, "No results.")
				return nil
			}

			if !save {
				if a.jsonOutput {
					return a.printJSON(results)
				}
				return a.printMovies(results)
			}

			username, err := a.username()
			if err != nil {
				return err
			}
			movie, err := a.toggle(cmd, username, client.ToggleInputFrom(results[0]))
			if err != nil {
				return err
			}
			return a.printMovie(favoriteVerb(movie), movie)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "toggle the first result into your favorites")
	return cmd
}
