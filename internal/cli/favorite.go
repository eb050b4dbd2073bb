package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/app"
	"github.com/five82/marquee/internal/overlay"
	"github.com/five82/marquee/internal/tmdb"
)

func newFavoriteCmd(flags *globalFlags) *cobra.Command {
	var watchlist bool

	cmd := &cobra.Command{
		Use:   "favorite <movie|tv> <id>",
		Short: "Toggle a title in your favorites or watchlist",
		Long: `Flips the favorite flag for one title and prints the state read back
from the server. Requires a signed-in session.`,
		Example: `  # Favorite (or unfavorite) Fight Club
  marquee favorite movie 550

  # Toggle a series on the watchlist
  marquee favorite tv 1399 --watchlist`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			media, err := tmdb.ParseMediaType(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[1])
			}
			field := overlay.Favorite
			if watchlist {
				field = overlay.Watchlist
			}

			env, err := app.Open(flags.options())
			if err != nil {
				return err
			}
			defer env.Close()

			if env.Session.Current().Active() {
				if err := env.ResolveAccount(cmd.Context()); err != nil {
					return fmt.Errorf("resolve account: %w", err)
				}
			}

			st, err := env.Overlay.Toggle(cmd.Context(), tmdb.Item{ID: id, MediaType: media}, field)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d: favorite=%t watchlist=%t\n", media, id, st.Favorite, st.Watchlist)
			return nil
		},
	}

	cmd.Flags().BoolVar(&watchlist, "watchlist", false, "Toggle the watchlist instead of favorites")
	return cmd
}

func newLogoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session and remove the session file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Open(flags.options())
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
