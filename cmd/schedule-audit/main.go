// Command schedule-audit reports conflicts and course groups for a course CSV export
// without a database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/csvio"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/scheduling"
)

type options struct {
	coursesFile     string
	term            string
	format          string
	hideStacked     bool
	hideCoreqs      bool
	groups          bool
	optimize        string
	locked          string
	maxPermutations int
	maxTime         time.Duration
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "schedule-audit:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	courses, err := csvio.LoadCoursesFile(opts.coursesFile)
	if err != nil {
		return err
	}
	if opts.term != "" {
		courses = filterTerm(courses, opts.term)
	}

	conflicts := scheduling.DetectAllConflicts(courses, scheduling.DetectOptions{
		HideStackedCourses:  opts.hideStacked,
		HideLabCorequisites: opts.hideCoreqs,
	})

	if opts.format == "csv" {
		return csvio.WriteConflicts(out, conflicts)
	}

	fmt.Fprintf(out, "%d sections, %d conflicts\n", len(courses), len(conflicts))
	printConflicts(out, conflicts)

	if opts.groups {
		printGroups(out, scheduling.BuildCourseGroups(courses))
	}

	if opts.optimize != "" {
		return printOptimization(out, courses, opts)
	}
	return nil
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("schedule-audit", flag.ContinueOnError)
	fs.StringVar(&opts.coursesFile, "courses", "", "path to the canonical course CSV (required)")
	fs.StringVar(&opts.term, "term", "", "only analyse sections of this term")
	fs.StringVar(&opts.format, "format", "text", "output format: text or csv (conflicts only)")
	fs.BoolVar(&opts.hideStacked, "hide-stacked", false, "skip conflicts between stacked 400/500 sections")
	fs.BoolVar(&opts.hideCoreqs, "hide-coreqs", false, "skip conflicts between a lecture and its lab")
	fs.BoolVar(&opts.groups, "groups", false, "print stacked and corequisite course groups")
	fs.StringVar(&opts.optimize, "optimize", "", "comma separated CRNs to search conflict-free alternatives for")
	fs.StringVar(&opts.locked, "lock", "", "comma separated CRNs the optimizer must not move")
	fs.IntVar(&opts.maxPermutations, "max-permutations", 10, "maximum alternatives to report")
	fs.DurationVar(&opts.maxTime, "max-time", 5*time.Second, "optimizer time budget")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.coursesFile == "" {
		return opts, errors.New("-courses is required")
	}
	if opts.format != "text" && opts.format != "csv" {
		return opts, fmt.Errorf("unknown format %q", opts.format)
	}
	return opts, nil
}

func filterTerm(courses []*models.Course, term string) []*models.Course {
	filtered := make([]*models.Course, 0, len(courses))
	for _, course := range courses {
		if course.Term == term {
			filtered = append(filtered, course)
		}
	}
	return filtered
}

func printConflicts(out io.Writer, conflicts []models.Conflict) {
	if len(conflicts) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tDAY\tTIME\tSECTIONS\tDETAIL")
	for _, c := range conflicts {
		fmt.Fprintf(w, "%s\t%s\t%s-%s\t%s %s / %s %s\t%s\n",
			c.Type, c.Day.Letter(),
			models.FormatMinutes(c.OverlapStart), models.FormatMinutes(c.OverlapEnd),
			c.Course1.Code(), c.Course1.CRN, c.Course2.Code(), c.Course2.CRN,
			c.Description)
	}
	_ = w.Flush()
}

func printGroups(out io.Writer, groups []models.CourseGroup) {
	fmt.Fprintf(out, "\n%d course groups\n", len(groups))
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCODE\tCRNS\tENROLLED")
	for _, g := range groups {
		if g.IsStandalone {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\n", g.Type, g.DisplayCode, strings.Join(g.AllCRNs, ","), g.CombinedEnrollment, g.CombinedCapacity)
	}
	_ = w.Flush()
}

func printOptimization(out io.Writer, courses []*models.Course, opts options) error {
	byCRN := make(map[string]*models.Course, len(courses))
	for _, course := range courses {
		byCRN[course.CRN] = course
	}
	var selection []*models.Course
	for _, crn := range splitCRNs(opts.optimize) {
		course, ok := byCRN[crn]
		if !ok {
			return fmt.Errorf("unknown CRN %s", crn)
		}
		selection = append(selection, course)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.maxTime+time.Second)
	defer cancel()

	search := scheduling.DefaultOptimizeOptions()
	search.MaxPermutations = opts.maxPermutations
	search.MaxTime = opts.maxTime
	search.LockedCRNs = splitCRNs(opts.locked)
	result := scheduling.Optimize(ctx, selection, search)

	fmt.Fprintf(out, "\noptimizer: %d original conflicts, %d candidates evaluated", result.OriginalConflicts, result.Evaluated)
	if result.Interrupted {
		fmt.Fprint(out, " (stopped early)")
	}
	fmt.Fprintln(out)
	if len(result.Permutations) == 0 {
		fmt.Fprintln(out, "no improving alternative found")
		return nil
	}
	for _, perm := range result.Permutations {
		fmt.Fprintf(out, "%s: %d conflicts, similarity %.2f\n", perm.ID, perm.ConflictCount, perm.SimilarityScore)
		for _, ch := range perm.Changes {
			fmt.Fprintf(out, "  %s %s %s: %s -> %s\n", ch.CRN, ch.CourseCode, ch.Field, ch.OldValue, ch.NewValue)
		}
	}
	return nil
}

func splitCRNs(raw string) []string {
	var crns []string
	for _, part := range strings.Split(raw, ",") {
		if crn := strings.TrimSpace(part); crn != "" {
			crns = append(crns, crn)
		}
	}
	return crns
}
