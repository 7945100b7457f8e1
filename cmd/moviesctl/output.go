package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/KirilDora/movie-fullstack-app/pkg/client"
)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printMovies(movies []client.Movie) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tYEAR\tRUNTIME\tGENRE\tDIRECTOR\tFAV")
	for _, m := range movies {
		id := "-"
		if m.Saved() {
			id = strconv.FormatInt(m.ID, 10)
		}
		fav := ""
		if m.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			id, m.Title, year(m.Year), m.Runtime, m.Genre, m.Director, fav)
	}
	return w.Flush()
}

func (a *app) printMovie(verb string, m *client.Movie) error {
	if a.jsonOutput {
		return a.printJSON(m)
	}
	fmt.Fprintf(a.out, "%s %q (%s), id %d\n", verb, m.Title, year(m.Year), m.ID)
	return nil
}

func year(y int) string {
	if y == 0 {
		return "n/a"
	}
	return strconv.Itoa(y)
}
