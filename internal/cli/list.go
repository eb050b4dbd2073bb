package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/five82/marquee/internal/app"
	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
)

type listOptions struct {
	media    string
	genre    int
	year     int
	minScore float64
	sort     string
	order    string
	pages    int
	noStatus bool
	output   string
}

// listEntry is one printed row.
type listEntry struct {
	ID        int64   `yaml:"id"`
	Media     string  `yaml:"media"`
	Title     string  `yaml:"title"`
	Year      string  `yaml:"year,omitempty"`
	Score     float64 `yaml:"score"`
	Favorite  *bool   `yaml:"favorite,omitempty"`
	Watchlist *bool   `yaml:"watchlist,omitempty"`
}

// listReport is the yaml document printed by list.
type listReport struct {
	Kind         string      `yaml:"kind"`
	Media        string      `yaml:"media"`
	TotalResults int         `yaml:"total_results"`
	HasMore      bool        `yaml:"has_more"`
	Items        []listEntry `yaml:"items"`
}

var listKinds = []string{"discover", "search", "trending", "favorites", "theme"}

func newListCmd(flags *globalFlags) *cobra.Command {
	opts := listOptions{}

	cmd := &cobra.Command{
		Use:       "list <discover|search|trending|favorites|theme> [query|theme]",
		Short:     "Print catalog pages without opening the browser",
		ValidArgs: listKinds,
		Args:      cobra.RangeArgs(1, 2),
		Example: `  # Top rated dramas from 1994
  marquee list discover --genre 18 --year 1994 --sort vote_average

  # Two pages of TV search results as yaml
  marquee list search "twin peaks" --media tv --pages 2 --output yaml

  # Your favorite movies
  marquee list favorites

  # A curated theme
  marquee list theme anime`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(args[0])
			query := ""
			if len(args) > 1 {
				query = args[1]
			}
			if kind == "search" && strings.TrimSpace(query) == "" {
				return fmt.Errorf("search needs a query")
			}
			if kind == "theme" && strings.TrimSpace(query) == "" {
				return fmt.Errorf("theme needs a name (one of %s)", strings.Join(themeSlugs(), ", "))
			}
			if opts.output != "table" && opts.output != "yaml" {
				return fmt.Errorf("unknown output %q (table or yaml)", opts.output)
			}

			env, err := app.Open(flags.options())
			if err != nil {
				return err
			}
			defer env.Close()

			report, err := runList(cmd.Context(), env, kind, query, opts, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			if opts.output == "yaml" {
				return writeYAML(cmd.OutOrStdout(), report)
			}
			return writeTable(cmd.OutOrStdout(), report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.media, "media", "movie", "Media type (movie or tv)")
	f.IntVar(&opts.genre, "genre", 0, "Genre id (discover only)")
	f.IntVar(&opts.year, "year", 0, "Release or first-air year (discover only)")
	f.Float64Var(&opts.minScore, "min-score", 0, "Minimum vote average (discover only)")
	f.StringVar(&opts.sort, "sort", "popularity", "Sort field (discover only)")
	f.StringVar(&opts.order, "order", "desc", "Sort order, asc or desc (discover only)")
	f.IntVar(&opts.pages, "pages", 1, "Number of pages to fetch")
	f.BoolVar(&opts.noStatus, "no-status", false, "Skip favorite and watchlist lookups")
	f.StringVarP(&opts.output, "output", "o", "table", "Output format (table or yaml)")

	return cmd
}

// runList pages through one listing with a catalog controller and joins the
// signed-in account's statuses.
func runList(ctx context.Context, env *app.Env, kind, query string, opts listOptions, changed func(string) bool) (listReport, error) {
	media, err := tmdb.ParseMediaType(opts.media)
	if err != nil {
		return listReport{}, err
	}

	filter := catalog.Filter{Media: media, Query: query, Region: env.Config.Region}
	var source catalog.Source
	switch kind {
	case "discover":
		source = catalog.Discover(env.Client)
		filter.SortField = opts.sort
		filter.SortOrder = catalog.SortOrder(strings.ToLower(opts.order))
		if changed("genre") {
			filter.GenreID = catalog.Int(opts.genre)
		}
		if changed("year") {
			filter.Year = catalog.Int(opts.year)
		}
		if changed("min-score") {
			filter.MinScore = catalog.Float(opts.minScore)
		}
	case "search":
		source = catalog.Search(env.Client)
	case "trending":
		source = catalog.Trending(env.Client)
	case "favorites":
		source = catalog.Favorites(env.Client, env.Session)
	case "theme":
		preset, ok := catalog.FindTheme(query)
		if !ok {
			return listReport{}, fmt.Errorf("unknown theme %q (one of %s)", query, strings.Join(themeSlugs(), ", "))
		}
		media = preset.Media
		filter = preset.Filter(env.Config.Region)
		source = catalog.Theme(env.Client)
	default:
		return listReport{}, fmt.Errorf("unknown list %q (one of %s)", kind, strings.Join(listKinds, ", "))
	}

	signedIn := env.Session.Current().Active()
	if signedIn {
		if err := env.ResolveAccount(ctx); err != nil {
			env.Logger.Warn("account lookup failed", "error", err)
		}
	}

	ctrl := catalog.New(source, filter).WithLogger(env.Logger)
	req, _ := ctrl.SetFilter(filter)
	if err := ctrl.Execute(ctx, req); err != nil {
		return listReport{}, err
	}
	for i := 1; i < opts.pages; i++ {
		req, ok := ctrl.LoadMore()
		if !ok {
			break
		}
		if err := ctrl.Execute(ctx, req); err != nil {
			return listReport{}, err
		}
	}

	snap := ctrl.Snapshot()
	if signedIn && !opts.noStatus {
		if err := env.Overlay.Resolve(ctx, snap.Items); err != nil {
			return listReport{}, err
		}
	}
	view := state.Build(snap, env.Overlay.Statuses())

	report := listReport{
		Kind:         kind,
		Media:        string(media),
		TotalResults: view.TotalResults,
		HasMore:      view.HasMore,
		Items:        make([]listEntry, 0, len(view.Entries)),
	}
	for _, e := range view.Entries {
		entry := listEntry{
			ID:    e.Item.ID,
			Media: string(e.Item.MediaType),
			Title: e.Item.DisplayTitle(),
			Year:  e.Item.Year(),
			Score: e.Item.VoteAverage,
		}
		if e.HasStatus {
			fav, watch := e.Status.Favorite, e.Status.Watchlist
			entry.Favorite, entry.Watchlist = &fav, &watch
		}
		report.Items = append(report.Items, entry)
	}
	return report, nil
}

func themeSlugs() []string {
	presets := catalog.Themes()
	out := make([]string, len(presets))
	for i, p := range presets {
		out[i] = p.Slug
	}
	return out
}

func writeYAML(w io.Writer, report any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeTable(w io.Writer, report listReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tSCORE\tFAV\tWATCH")
	for _, e := range report.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%s\t%s\n",
			e.ID, e.Title, e.Year, e.Score, flag(e.Favorite), flag(e.Watchlist))
	}
	more := ""
	if report.HasMore {
		more = " (more available)"
	}
	fmt.Fprintf(tw, "\n%d of %d %s results%s\n", len(report.Items), report.TotalResults, report.Media, more)
	return tw.Flush()
}

func flag(v *bool) string {
	switch {
	case v == nil:
		return "-"
	case *v:
		return "yes"
	default:
		return "no"
	}
}
