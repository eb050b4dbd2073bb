package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/app"
	"github.com/five82/marquee/internal/detail"
	"github.com/five82/marquee/internal/tmdb"
)

// showReport is the document printed by show.
type showReport struct {
	ID              int64           `yaml:"id"`
	Media           string          `yaml:"media"`
	Title           string          `yaml:"title"`
	Year            string          `yaml:"year,omitempty"`
	Tagline         string          `yaml:"tagline,omitempty"`
	Runtime         int             `yaml:"runtime_minutes,omitempty"`
	Genres          []string        `yaml:"genres,omitempty"`
	Director        string          `yaml:"director,omitempty"`
	Trailer         string          `yaml:"trailer,omitempty"`
	Region          string          `yaml:"region"`
	Providers       *providerReport `yaml:"providers,omitempty"`
	Cast            []string        `yaml:"cast,omitempty"`
	Reviews         []reviewEntry   `yaml:"reviews,omitempty"`
	Recommendations []listEntry     `yaml:"recommendations,omitempty"`
	Missing         []string        `yaml:"missing,omitempty"`
}

type providerReport struct {
	Link   string   `yaml:"link,omitempty"`
	Stream []string `yaml:"stream,omitempty"`
	Ads    []string `yaml:"ads,omitempty"`
	Rent   []string `yaml:"rent,omitempty"`
	Buy    []string `yaml:"buy,omitempty"`
}

type reviewEntry struct {
	Author string   `yaml:"author"`
	Rating *float64 `yaml:"rating,omitempty"`
	URL    string   `yaml:"url,omitempty"`
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <movie|tv> <id>",
		Short: "Print one title's details, cast and where to watch it",
		Example: `  # Fight Club
  marquee show movie 550

  # A series as yaml
  marquee show tv 1399 --output yaml`,
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
			if output != "text" && output != "yaml" {
				return fmt.Errorf("unknown output %q (text or yaml)", output)
			}

			env, err := app.Open(flags.options())
			if err != nil {
				return err
			}
			defer env.Close()

			b, err := detail.Load(cmd.Context(), env.Client, media, id, detail.Options{
				Region: env.Config.Region,
				Logger: env.Logger,
			})
			if err != nil {
				return err
			}
			report := buildShowReport(b)
			if output == "yaml" {
				return writeYAML(cmd.OutOrStdout(), report)
			}
			return writeShowText(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text or yaml)")
	return cmd
}

func buildShowReport(b detail.Bundle) showReport {
	item := b.Details.Item(b.Media)
	r := showReport{
		ID:       b.ID,
		Media:    string(b.Media),
		Title:    item.DisplayTitle(),
		Year:     item.Year(),
		Tagline:  b.Details.Tagline,
		Runtime:  b.Details.RuntimeMinutes(),
		Director: b.Director,
		Region:   b.Region,
		Missing:  b.Missing,
	}
	for _, g := range b.Details.Genres {
		r.Genres = append(r.Genres, g.Name)
	}
	if b.Trailer != nil {
		r.Trailer = b.Trailer.URL()
	}
	if b.HasProviders {
		p := b.Providers
		r.Providers = &providerReport{
			Link:   p.Link,
			Stream: providerNames(p.Flatrate),
			Ads:    providerNames(p.Ads),
			Rent:   providerNames(p.Rent),
			Buy:    providerNames(p.Buy),
		}
	}
	for _, c := range b.Cast {
		name := c.Name
		if c.Character != "" {
			name += " as " + c.Character
		}
		r.Cast = append(r.Cast, name)
	}
	for _, rv := range b.Reviews {
		r.Reviews = append(r.Reviews, reviewEntry{Author: rv.Author, Rating: rv.AuthorDetails.Rating, URL: rv.URL})
	}
	for _, rec := range b.Recommendations {
		r.Recommendations = append(r.Recommendations, listEntry{
			ID:    rec.ID,
			Media: string(rec.MediaType),
			Title: rec.DisplayTitle(),
			Year:  rec.Year(),
			Score: rec.VoteAverage,
		})
	}
	return r
}

func providerNames(ps []tmdb.Provider) []string {
	if len(ps) == 0 {
		return nil
	}
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func writeShowText(w io.Writer, r showReport) error {
	var b strings.Builder
	title := r.Title
	if r.Year != "" {
		title += " (" + r.Year + ")"
	}
	fmt.Fprintf(&b, "%s  [%s %d]\n", title, r.Media, r.ID)
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-10s %s\n", label+":", value)
		}
	}
	field("Tagline", r.Tagline)
	if r.Runtime > 0 {
		field("Runtime", fmt.Sprintf("%d min", r.Runtime))
	}
	field("Genres", strings.Join(r.Genres, ", "))
	field("Director", r.Director)
	field("Trailer", r.Trailer)
	if r.Providers == nil {
		field("Watch", "not available in "+r.Region)
	} else {
		field("Stream", strings.Join(r.Providers.Stream, ", "))
		field("Ads", strings.Join(r.Providers.Ads, ", "))
		field("Rent", strings.Join(r.Providers.Rent, ", "))
		field("Buy", strings.Join(r.Providers.Buy, ", "))
	}
	field("Cast", strings.Join(r.Cast[:min(len(r.Cast), 5)], ", "))
	if len(r.Recommendations) > 0 {
		names := make([]string, 0, 5)
		for _, rec := range r.Recommendations[:min(len(r.Recommendations), 5)] {
			names = append(names, rec.Title)
		}
		field("See also", strings.Join(names, ", "))
	}
	field("Reviews", reviewSummary(r.Reviews))
	field("Missing", strings.Join(r.Missing, ", "))
	_, err := io.WriteString(w, b.String())
	return err
}

func reviewSummary(reviews []reviewEntry) string {
	if len(reviews) == 0 {
		return ""
	}
	var rated int
	var sum float64
	for _, rv := range reviews {
		if rv.Rating != nil {
			rated++
			sum += *rv.Rating
		}
	}
	if rated == 0 {
		return fmt.Sprintf("%d", len(reviews))
	}
	return fmt.Sprintf("%d (avg %.1f from %d rated)", len(reviews), sum/float64(rated), rated)
}
