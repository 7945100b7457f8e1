package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirilDora/movie-fullstack-app/pkg/client"
)

// movieFlags are the editable fields shared by add, edit and favorite.
type movieFlags struct {
	title    string
	year     int
	runtime  string
	genre    string
	director string
}

func (f *movieFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "movie title (required)")
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, "release year")
	cmd.Flags().StringVar(&f.runtime, "runtime", "", "runtime, e.g. \"148 min\"")
	cmd.Flags().StringVarP(&f.genre, "genre", "g", "", "genre")
	cmd.Flags().StringVarP(&f.director, "director", "d", "", "director")
	_ = cmd.MarkFlagRequired("title")
}

func (f *movieFlags) input(username string, favorite bool) client.MovieInput {
	return client.MovieInput{
		Title:      f.title,
		Year:       f.year,
		Runtime:    f.runtime,
		Genre:      f.genre,
		Director:   f.director,
		IsFavorite: favorite,
		Username:   username,
	}
}

func newListCmd(a *app) *cobra.Command {
	var filter client.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies in your catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := a.username()
			if err != nil {
				return err
			}
			movies, err := a.client().ListMovies(cmd.Context(), username)
			if err != nil {
				return err
			}
			movies = client.FilterMovies(movies, filter)

			if a.jsonOutput {
				return a.printJSON(movies)
			}
			if len(movies) == 0 {
				fmt.Fprintln(a.out, "No movies found.")
				return nil
			}
			return a.printMovies(movies)
		},
	}
	cmd.Flags().BoolVar(&filter.FavoritesOnly, "favorites", false, "only show favorites")
	cmd.Flags().StringVarP(&filter.Query, "search", "s", "", "filter by title, genre or director")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var (
		fields   movieFlags
		favorite bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a movie to your catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := a.username()
			if err != nil {
				return err
			}
			movie, err := a.client().AddMovie(cmd.Context(), fields.input(username, favorite))
			if err != nil {
				return err
			}
			return a.printMovie("Added", movie)
		},
	}
	fields.register(cmd)
	cmd.Flags().BoolVarP(&favorite, "favorite", "f", false, "mark as favorite")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		fields   movieFlags
		favorite bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace the fields of a movie",
		Long: `Replace every field of a movie you own. Fields not given are cleared,
so pass the full record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			username, err := a.username()
			if err != nil {
				return err
			}
			movie, err := a.client().EditMovie(cmd.Context(), id, fields.input(username, favorite))
			if err != nil {
				return err
			}
			return a.printMovie("Updated", movie)
		},
	}
	fields.register(cmd)
	cmd.Flags().BoolVarP(&favorite, "favorite", "f", false, "mark as favorite")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a movie from your catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			username, err := a.username()
			if err != nil {
				return err
			}
			if !yes && !a.confirm(fmt.Sprintf("Delete movie %d?", id)) {
				fmt.Fprintln(a.out, "Aborted.")
				return nil
			}

			if err := a.client().DeleteMovie(cmd.Context(), id, username); err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(map[string]any{"id": id, "deleted": true})
			}
			fmt.Fprintf(a.out, "Deleted movie %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "do not ask for confirmation")
	return cmd
}

func newFavoriteCmd(a *app) *cobra.Command {
	var fields movieFlags

	cmd := &cobra.Command{
		Use:   "favorite",
		Short: "Toggle the favorite flag of a movie by title and year",
		Long: `Toggle the favorite flag of the movie with the given title and year.
A movie you do not have yet is added as a favorite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := a.username()
			if err != nil {
				return err
			}
			movie, err := a.toggle(cmd, username, client.ToggleInput{
				Title:    fields.title,
				Year:     fields.year,
				Runtime:  fields.runtime,
				Genre:    fields.genre,
				Director: fields.director,
			})
			if err != nil {
				return err
			}
			return a.printMovie(favoriteVerb(movie), movie)
		},
	}
	fields.register(cmd)
	return cmd
}

// toggle resolves the user id first; the toggle endpoint identifies the
// owner by id.
func (a *app) toggle(cmd *cobra.Command, username string, in client.ToggleInput) (*client.Movie, error) {
	c := a.client()
	id, err := c.EnsureUser(cmd.Context(), username)
	if err != nil {
		return nil, err
	}
	in.UserID = id
	return c.ToggleFavorite(cmd.Context(), in)
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", s)
	}
	return id, nil
}

func favoriteVerb(m *client.Movie) string {
	if m.IsFavorite {
		return "Favorited"
	}
	return "Unfavorited"
}
