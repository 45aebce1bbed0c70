package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MollahHamza/TRASHCANPRO/internal/store"
)

func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect waste reports",
	}
	reportCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all reports in submission order",
		Args:  cobra.NoArgs,
		RunE:  runReportList,
	})
	return reportCmd
}

func runReportList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	b, users, err := stores(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	reports, err := store.NewReportStore(ctx, b.Reports, users, storageConfig().ImageDir)
	if err != nil {
		return err
	}

	all := reports.ListAll()
	if len(all) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports yet.")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tTYPE\tLAT\tLON\tSTATUS\tTIMESTAMP")
	for _, r := range all {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.5f\t%.5f\t%s\t%s\n",
			r.ID, r.User, r.Type, r.Location.Latitude, r.Location.Longitude, r.Status, r.Timestamp)
	}
	return w.Flush()
}
