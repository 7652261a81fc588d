package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reels/pkg/types"
)

func newPlatformCmd(a *app) *cobra.Command {
	var (
		low, high    float64
		free         bool
		withPrograms bool
		id           int64
	)
	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Find streaming platforms",
		Long: "List streaming platforms, filter them by subscription cost, or show the\n" +
			"programs currently available on them.\n\n" +
			"Examples:\n  reels platform --min 5 --max 8\n  reels platform --free\n" +
			"  reels platform --with-programs --id 2",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			p := c.Platforms
			byCost := cmd.Flags().Changed("min") || cmd.Flags().Changed("max")

			if withPrograms && id > 0 {
				rec, err := p.FindWithProgramsByID(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(cmd, rec)
			}
			var recs []types.Record
			switch {
			case free:
				recs, err = p.FindFree(ctx)
			case byCost:
				if !cmd.Flags().Changed("min") || !cmd.Flags().Changed("max") {
					return errors.New("--min and --max must be given together")
				}
				recs, err = p.FindByCostRange(ctx, low, high)
			case withPrograms:
				recs, err = p.FindWithPrograms(ctx)
			default:
				recs, err = p.FindAll(ctx)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, recs)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&low, "min", 0, "lowest monthly cost")
	f.Float64Var(&high, "max", 0, "highest monthly cost")
	f.BoolVar(&free, "free", false, "only platforms with no subscription cost")
	f.BoolVar(&withPrograms, "with-programs", false, "include currently available programs")
	f.Int64Var(&id, "id", 0, "with --with-programs, a single platform")
	return cmd
}
