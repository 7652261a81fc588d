package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reels/internal/gateway"
	"github.com/mesh-intelligence/reels/pkg/types"
)

func newProgramCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "program",
		Short: "Add and find programs",
	}
	cmd.AddCommand(newProgramAddCmd(a), newProgramFindCmd(a))
	return cmd
}

func newProgramAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <json|->",
		Short: "Add a program with its directors, cast and platforms in one step",
		Long: "Add a program together with its director, actor and platform links. Either\n" +
			"everything is stored or nothing is.\n\n" +
			"Example:\n  reels program add '{\"title\": \"Klaus\", \"yr_released\": 2019, \"format\": \"Movie\",\n" +
			"    \"program_rating\": \"PG\", \"description\": \"A postman and a toymaker.\",\n" +
			"    \"director_ids\": [1], \"platform_ids\": [1]}'",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var draft gateway.ProgramDraft
			if err := readJSON(input(cmd, args[0]), &draft); err != nil {
				return err
			}
			c, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.Composer.CreateProgram(cmd.Context(), draft)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

func newProgramFindCmd(a *app) *cobra.Command {
	var (
		rating, format, kind, platform string
		from, to                       int
	)
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find programs by rating, format, type, release years or platform",
		Long: "Find programs matching exactly one filter.\n\n" +
			"Examples:\n  reels program find --rating PG\n  reels program find --from 1980 --to 1990\n" +
			"  reels program find --platform netflix",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			p := c.Programs
			var recs []types.Record
			switch {
			case rating != "":
				recs, err = p.FindByRating(ctx, rating)
			case format != "":
				recs, err = p.FindByFormat(ctx, format)
			case kind != "":
				recs, err = p.FindByType(ctx, kind)
			case platform != "":
				recs, err = p.FindByStreamingPlatform(ctx, platform)
			case cmd.Flags().Changed("from") || cmd.Flags().Changed("to"):
				if !cmd.Flags().Changed("from") || !cmd.Flags().Changed("to") {
					return errors.New("--from and --to must be given together")
				}
				recs, err = p.FindByYearRange(ctx, from, to)
			default:
				return fmt.Errorf("%w: give one of --rating, --format, --type, --platform or --from/--to", types.ErrInvalidData)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, recs)
		},
	}
	f := cmd.Flags()
	f.StringVar(&rating, "rating", "", "program rating, e.g. PG")
	f.StringVar(&format, "format", "", "format, e.g. Movie")
	f.StringVar(&kind, "type", "", "type: movie, tv_show or special")
	f.StringVar(&platform, "platform", "", "streaming platform name (substring)")
	f.IntVar(&from, "from", 0, "first release year")
	f.IntVar(&to, "to", 0, "last release year")
	return cmd
}
