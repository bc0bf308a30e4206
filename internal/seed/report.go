package seed

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteReport prints the run stats and the leaderboard rows as a table.
func WriteReport(w io.Writer, res Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "members\t%d\n", res.Stats.MembersCreated)
	fmt.Fprintf(tw, "events\t%d\n", res.Stats.EventsCreated)
	fmt.Fprintf(tw, "tallied\t%d\n", res.Stats.MembersTallied)
	fmt.Fprintf(tw, "duration\t%s\n\n", res.Stats.Duration.Round(1e6))

	fmt.Fprintln(tw, "RANK\tNAME\tDEPT\tC/V/A\tPOINTS")
	for _, r := range res.Top {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d/%d/%d\t%d\n",
			r.Rank, r.Member.Name, r.Member.Department,
			r.Member.EventsCoordinated, r.Member.EventsVolunteered, r.Member.EventsAttended,
			r.Points)
	}
	return tw.Flush()
}
