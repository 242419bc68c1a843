package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/relecov-tools/internal/batch"
)

const maxIssuesShown = 3

func WriteTable(r *batch.Report, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	title := r.Source
	if r.Target != "" {
		title = fmt.Sprintf("%s -> %s (%s)", r.Source, r.Target, r.Mapping)
	}
	fmt.Fprintf(tw, "\n=== Run %s: %s ===\n\n", r.RunID, title)

	writeSummary(tw, r)
	if rejected := r.Rejected(); len(rejected) > 0 {
		writeRejected(tw, rejected)
	}

	return tw.Flush()
}

func writeSummary(tw *tabwriter.Writer, r *batch.Report) {
	header := []string{"Total", "Valid", "Invalid", "Mapped", "Unmapped", "Duration", "Result"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	result := "OK"
	if !r.Success {
		result = "FAILED"
	}
	row := []string{
		fmt.Sprintf("%d", r.Counts.Total),
		fmt.Sprintf("%d", r.Counts.Valid),
		fmt.Sprintf("%d", r.Counts.Invalid),
		fmt.Sprintf("%d", r.Counts.Mapped),
		fmt.Sprintf("%d", r.Counts.Unmapped),
		fmtDuration(r.Duration()),
		result,
	}
	fmt.Fprintln(tw, strings.Join(row, "\t"))
	fmt.Fprintln(tw)
}

func writeRejected(tw *tabwriter.Writer, rejected []batch.Outcome) {
	fmt.Fprintf(tw, "Rejected Records\n\n")

	header := []string{"Row", "Record", "Stage", "Issues"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	for _, o := range rejected {
		id := o.RecordID
		if id == "" {
			id = "-"
		}
		fmt.Fprintln(tw, strings.Join([]string{
			fmt.Sprintf("%d", o.Index+1),
			id,
			string(o.FailedStage),
			summarize(issues(o)),
		}, "\t"))
	}
	fmt.Fprintln(tw)
}

func summarize(all []string) string {
	if len(all) <= maxIssuesShown {
		return strings.Join(all, "; ")
	}
	return strings.Join(all[:maxIssuesShown], "; ") + fmt.Sprintf("; ... (total %d)", len(all))
}

func separator(n int) string {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	return strings.Join(sep, "\t")
}

func fmtDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
