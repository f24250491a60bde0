package notify

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"jobhound/internal/config"
	"jobhound/internal/pipeline"
	"jobhound/pkg/utils"
)

// ConsoleRenderer prints the ranked digest as a terminal table.
type ConsoleRenderer struct {
	cfg *config.Config
	out io.Writer
}

// NewConsoleRenderer writes to stdout.
func NewConsoleRenderer(cfg *config.Config) *ConsoleRenderer {
	return &ConsoleRenderer{cfg: cfg, out: os.Stdout}
}

// Render prints the run header, the ranked table, and the top match URLs.
func (r *ConsoleRenderer) Render(res *pipeline.Result) error {
	if res.Summary.DryRun {
		fmt.Fprintf(r.out, "\nDRY RUN - %s digest preview\n\n", r.cfg.Profile.Name)
	} else {
		fmt.Fprintf(r.out, "\n%s digest - new matches\n\n", r.cfg.Profile.Name)
	}

	if len(res.Ranked) == 0 {
		fmt.Fprintln(r.out, "No postings cleared the score threshold.")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tNEW\tTITLE\tCOMPANY\tLOCATION\tSOURCE")
	for _, p := range res.Ranked {
		newMark := ""
		if res.NewIDs[p.ID] {
			newMark = "*"
		}
		fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\t%s\t%s\n",
			p.Score, newMark,
			utils.Truncate(p.Title, 40),
			utils.Truncate(p.Company, 20),
			utils.Truncate(p.Location, 18),
			p.Source)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(r.out, "\nScraped %d, qualified %d, new %d (elapsed %s)\n",
		res.Summary.TotalScraped, res.Summary.Qualified, res.Summary.NewPostings,
		utils.FormatDuration(res.Summary.Elapsed))

	for _, failure := range res.Summary.Failures {
		fmt.Fprintf(r.out, "source %s failed: %s\n", failure.Source, failure.Err)
	}

	top := res.Ranked
	if len(top) > 3 {
		top = top[:3]
	}
	fmt.Fprintln(r.out, "\nTop matches:")
	for i, p := range top {
		fmt.Fprintf(r.out, "%d. %s at %s (%.1f)\n   %s\n", i+1, p.Title, p.Company, p.Score, p.URL)
	}

	return nil
}
