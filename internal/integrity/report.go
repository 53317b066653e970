package integrity

import "github.com/agentstation/utc"

// Report is the outcome of one Check run.
type Report struct {
	Issues      []Issue
	Checked     map[string]int
	GeneratedAt utc.Time
}

func newReport() *Report {
	return &Report{
		Checked:     make(map[string]int),
		GeneratedAt: utc.Now(),
	}
}

func (r *Report) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// Clean reports whether no issues were found.
func (r *Report) Clean() bool { return len(r.Issues) == 0 }

// FixableCount counts the issues Fix would act on.
func (r *Report) FixableCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Fixable {
			n++
		}
	}
	return n
}

// CountBySeverity tallies issues per severity.
func (r *Report) CountBySeverity() map[Severity]int {
	out := make(map[Severity]int)
	for _, issue := range r.Issues {
		out[issue.Severity]++
	}
	return out
}

// FixReport is the outcome of one Fix run. In dry-run mode Fixed
// lists what would have been fixed.
type FixReport struct {
	DryRun  bool
	Fixed   []Issue
	Skipped []Issue
}
