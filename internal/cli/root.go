package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	prefsPath  string
	poll       int
	debug      bool
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		PollEvery:  g.poll,
		Debug:      g.debug,
	}
}

// NewRootCmd builds the marquee command tree. Running it without a
// subcommand opens the browser.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "marquee",
		Short: "Browse movies and TV series from the terminal",
		Long: `marquee browses paginated movie and TV listings from a TMDB-compatible API.

Discover titles by genre, year, score and sort order, search by title, follow
the weekly trending list, browse curated themes, look up a title's cast and
where to watch it, and keep favorites and a watchlist when signed in.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to config.toml (defaults to ~/.config/marquee/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "Path to prefs.toml (defaults to ~/.config/marquee/prefs.toml)")
	pf.BoolVar(&flags.debug, "debug", false, "Write debug entries to the log file")

	cmd.AddCommand(newBrowseCmd(flags))
	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newShowCmd(flags))
	cmd.AddCommand(newFavoriteCmd(flags))
	cmd.AddCommand(newLogoutCmd(flags))

	return cmd
}

func newBrowseCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive browser",
		Example: `  # Open the browser
  marquee browse

  # Check the session file every 5 seconds
  marquee browse --poll 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}
	cmd.Flags().IntVar(&flags.poll, "poll", 0, "Seconds between session file checks (defaults to 2)")
	return cmd
}
