package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/backoffice-suite/backoffice/internal/domain"
)

// PrintScreens writes the screens admin may open, one per line.
func PrintScreens(admin domain.Admin, w io.Writer) error {
	infos := domain.Screens(admin)
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No screens available for this role")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		source := "api"
		if info.Mock {
			source = "mock"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.Title, info.Product, source); err != nil {
			return err
		}
	}
	return tw.Flush()
}
