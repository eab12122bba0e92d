package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/damsole-chat/server/internal/agent/model"
	"github.com/damsole-chat/server/internal/agent/repo"
)

var leadsLimit int

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List the most recent captured leads",
	RunE:  runLeads,
}

func init() {
	leadsCmd.Flags().IntVarP(&leadsLimit, "limit", "n", 20, "Maximum number of leads to show")
}

func runLeads(cmd *cobra.Command, _ []string) error {
	store, err := repo.NewSQLiteLeadRepository(cfg.Leads.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	leads, err := store.ListLeads(cmd.Context(), leadsLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIMESTAMP\tNAME\tEMAIL\tPHONE\tREQUIREMENT\tDEADLINE")
	for _, l := range leads {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID,
			l.SubmittedAt.Format("2006-01-02 15:04:05"),
			l.Record.Value(model.FullName),
			l.Record.Value(model.Email),
			l.Record.Value(model.PhoneNumber),
			l.Record.Value(model.ProjectRequirement),
			l.Record.Value(model.Deadline),
		)
	}
	return w.Flush()
}
