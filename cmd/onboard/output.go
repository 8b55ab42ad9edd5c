package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/profileclient"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func printTableHeader(w *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError renders field errors one per line, the way a form would.
func printError(err error) {
	var verr *onboarding.ValidationError
	var apiErr *profileclient.Error
	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(os.Stderr, "Invalid input:")
		for _, f := range verr.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Field, f.Code)
		}
	case errors.As(err, &apiErr):
		fmt.Fprintf(os.Stderr, "Error (%d %s): %s\n", apiErr.StatusCode, apiErr.Code, apiErr.Message)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
