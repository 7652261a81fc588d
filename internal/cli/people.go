package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reels/internal/gateway"
	"github.com/mesh-intelligence/reels/pkg/types"
)

func newPeopleCmd(a *app) *cobra.Command {
	var (
		nationality, name string
		birthYear         int
		withPrograms      bool
		id                int64
	)
	cmd := &cobra.Command{
		Use:       "people <actors|directors|producers>",
		Short:     "Find actors, directors and producers",
		ValidArgs: []string{"actors", "directors", "producers"},
		Long: "List people with the programs they worked on, or filter them.\n\n" +
			"Examples:\n  reels people directors --nationality italian\n" +
			"  reels people actors --name james --birth-year 1980\n" +
			"  reels people producers --with-programs --id 6",
		Args: cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			g, err := c.People(tableNames[args[0]])
			if err != nil {
				return err
			}

			searchActor := args[0] == "actors" && (name != "" || cmd.Flags().Changed("birth-year"))
			switch {
			case searchActor:
				crit := gateway.ActorCriteria{Name: name, Nationality: nationality, BirthYear: birthYear}
				recs, err := c.Actors.SearchAdvanced(ctx, crit)
				if err != nil {
					return err
				}
				return printJSON(cmd, recs)
			case nationality != "":
				recs, err := g.FindByNationality(ctx, nationality)
				if err != nil {
					return err
				}
				return printJSON(cmd, recs)
			case withPrograms && id > 0:
				rec, err := g.FindWithProgramsByID(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(cmd, rec)
			default:
				var recs []types.Record
				if withPrograms {
					recs, err = g.FindWithPrograms(ctx)
				} else {
					recs, err = g.FindAll(ctx)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd, recs)
			}
		},
	}
	f := cmd.Flags()
	f.StringVar(&nationality, "nationality", "", "nationality (substring)")
	f.StringVar(&name, "name", "", "actor name (substring)")
	f.IntVar(&birthYear, "birth-year", 0, "actor birth year")
	f.BoolVar(&withPrograms, "with-programs", false, "include the programs each person worked on")
	f.Int64Var(&id, "id", 0, "with --with-programs, a single person")
	return cmd
}
