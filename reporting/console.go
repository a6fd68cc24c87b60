// Package reporting is the external collaborator that renders UCRL2 and
// diagnostics output: colored per-episode console summaries and HTML line
// charts of regret/gain series. None of the numerical core packages import
// this one — it only consumes their structured return values, matching the
// boundary in SPEC_FULL.md §5 that keeps console output out of the core.
package reporting

import (
	"fmt"

	"github.com/logrusorgru/aurora"

	"github.com/asmuth-labs/ucrl2/ucrl2"
)

// EpisodePrinter renders a colored one-line summary of each episode as
// ucrl2.Driver reports it: blue for a converged episode, red for a
// best-effort (not-yet-converged) one.
func EpisodePrinter() func(ucrl2.EpisodeReport) {
	return func(rep ucrl2.EpisodeReport) {
		status := aurora.Blue("converged")
		if !rep.Converged {
			status = aurora.Red("not converged")
		}
		fmt.Printf(
			"%s %s  %s %s  %s %6.4f (%s)\n",
			aurora.White("episode"), aurora.Cyan(rep.Episode),
			aurora.White("t0"), aurora.Cyan(rep.StartTime),
			aurora.White("gain"), rep.Result.Gain, status,
		)
	}
}
