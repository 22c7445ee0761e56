package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/2beens/physiometrics/internal/physio"
	"github.com/2beens/physiometrics/internal/physio/analysis"
)

func printReport(out io.Writer, report physio.Report) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	d := report.Display
	c := report.Classification

	name := report.Name
	if name == "" {
		name = "(anonymous)"
	}
	fmt.Fprintf(tw, "name\t%s\n", name)
	fmt.Fprintf(tw, "goal\t%s\n", report.Goal)
	fmt.Fprintf(tw, "BMI\t%s\t%s\n", d.BMI, c.BMICategory)
	fmt.Fprintf(tw, "BMR\t%s\n", d.BMR)
	fmt.Fprintf(tw, "TDEE\t%s\n", d.TDEE)
	fmt.Fprintf(tw, "target intake\t%s\n", d.TargetIntake)
	fmt.Fprintf(tw, "weekly load\t%s\n", d.WeeklyLoad)
	fmt.Fprintf(tw, "monthly average\t%s\n", d.MonthlyAverage)
	fmt.Fprintf(tw, "ACWR\t%s\t%s\n", d.ACWR, c.ACWRZone)
	fmt.Fprintf(tw, "trend\t%s\t%s\n", d.TrendDelta, c.Trend)
	fmt.Fprintf(tw, "intensity\t")
	for i, band := range c.Intensity {
		fmt.Fprintf(tw, "%s:%s ", physio.Weekday(i), band)
	}
	fmt.Fprintln(tw)

	return tw.Flush()
}

func printHistory(out io.Writer, history analysis.HistoryResponse) error {
	if history.Count == 0 {
		_, err := fmt.Fprintf(out, "no saved results for %s\n", history.Name)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "date\tACWR\tzone\tmonthly avg\ttarget kcal")
	for _, r := range history.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Date,
			r.ACWR.Format(2),
			r.ACWRZone,
			r.MonthlyAverage.Format(2),
			r.TargetIntake.Format(0),
		)
	}
	return tw.Flush()
}
