package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"tmdbreport/internal/dataprocessing"
	"tmdbreport/internal/report"
	"tmdbreport/pkg/contracts/domain"
)

// previewTitleWidth bounds the title column of the console preview.
const previewTitleWidth = 40

// writeInspection prints the first rows, the column names and the
// closing conclusions of ds.
func writeInspection(w io.Writer, ds *dataprocessing.Dataset, rows, topN int) error {
	head := ds.Head(rows)

	fmt.Fprintf(w, "First %d rows of the dataset:\n", len(head))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\ttitle\tvote_average\tvote_count\tpopularity\trelease_date\trelease_year")
	for i, m := range head {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", i,
			dataprocessing.TruncateLabel(m.Title, previewTitleWidth),
			strconv.FormatFloat(m.VoteAverage, 'f', -1, 64),
			voteCount(m),
			popularity(m),
			m.ReleaseDate,
			releaseYear(m))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nColumns in the dataset:\n%s\n", strings.Join(ds.Columns(), ", "))

	st := ds.Stats()
	fmt.Fprintf(w, "\nRows read: %d, kept: %d, dropped: %d, unreadable dates: %d\n",
		st.RowsRead, st.Retained, st.Dropped, st.UnparsableDates)

	fmt.Fprintln(w, "\nConclusions:")
	for _, line := range report.SummaryLines(ds.Summarize(topN)) {
		fmt.Fprintf(w, "- %s\n", line)
	}
	return nil
}

func voteCount(m domain.Movie) string {
	if !m.HasVoteCount {
		return "-"
	}
	return strconv.FormatInt(m.VoteCount, 10)
}

func popularity(m domain.Movie) string {
	if !m.HasPopularity() {
		return "-"
	}
	return strconv.FormatFloat(m.Popularity, 'f', -1, 64)
}

func releaseYear(m domain.Movie) string {
	if y, ok := m.Year(); ok {
		return strconv.Itoa(y)
	}
	return "-"
}
