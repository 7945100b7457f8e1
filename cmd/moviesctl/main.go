// Command moviesctl is a terminal front end for the movie catalog API.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/KirilDora/movie-fullstack-app/pkg/client"
)

func main() {
	cmd := newRootCmd(newApp(os.Stdin, os.Stdout))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}

// describe prints server and transport failures the way users should see
// them and leaves local errors (bad flags, missing login) untouched.
func describe(err error) string {
	var apiErr *client.APIError
	var netErr *client.NetworkError
	if errors.As(err, &apiErr) || errors.As(err, &netErr) {
		return client.ErrorMessage(err)
	}
	return err.Error()
}
