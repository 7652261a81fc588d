package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reels/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var search, term, sortBy string
	var desc bool
	cmd := &cobra.Command{
		Use:   "list <table>",
		Short: "List the records of a table",
		Long: "List every record of a table. Programs and people come back with their\n" +
			"related names aggregated.\n\nValid tables: " + validTableNames + "\n\n" +
			"Examples:\n  reels list programs\n  reels list actors --search name --term james\n" +
			"  reels list platforms --sort subscription_cost --desc",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.table(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var recs []types.Record
			switch {
			case search != "":
				recs, err = g.Search(cmd.Context(), search, term)
			case sortBy != "":
				dir := "asc"
				if desc {
					dir = "desc"
				}
				recs, err = g.Sort(cmd.Context(), sortBy, dir)
			default:
				recs, err = g.FindAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, recs)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "column to search")
	cmd.Flags().StringVar(&term, "term", "", "substring to look for in --search")
	cmd.Flags().StringVar(&sortBy, "sort", "", "column to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <id>",
		Short: "Get a record by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.table(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			rec, err := g.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, rec)
		},
	}
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count <table>",
		Short: "Count the records of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.table(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			n, err := g.CountAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <table> <json|->",
		Short: "Insert a record",
		Long: "Insert a record given as a JSON object, or read from stdin with \"-\".\n\n" +
			"Example:\n  reels create actors '{\"name\": \"Zooey Deschanel\", \"nationality\": \"American\"}'",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.table(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rec, err := readRecord(cmd, args[1])
			if err != nil {
				return err
			}
			res, err := g.Create(cmd.Context(), rec)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <table> <id> <json|->",
		Short: "Update columns of a record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.table(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			rec, err := readRecord(cmd, args[2])
			if err != nil {
				return err
			}
			res, err := g.Update(cmd.Context(), id, rec)
			if err != nil {
				return err
			}
			if res.AffectedRows == 0 {
				return fmt.Errorf("%w: %s %d", types.ErrNotFound, args[0], id)
			}
			return printJSON(cmd, res)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.table(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			res, err := g.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if res.AffectedRows == 0 {
				return fmt.Errorf("%w: %s %d", types.ErrNotFound, args[0], id)
			}
			return printJSON(cmd, res)
		},
	}
}
