package domain

import (
	"cmp"
	"slices"
)

// CheckProblem is one finding of a file check.
type CheckProblem struct {
	Module   string `json:"module"`
	Location string `json:"location"`
	Problem  string `json:"problem"`
}

// String renders the problem on one line.
func (p CheckProblem) String() string {
	return p.Module + ": " + p.Location + ": " + p.Problem
}

// SortProblems orders problems by module, then location.
func SortProblems(problems []CheckProblem) {
	slices.SortFunc(problems, func(a, b CheckProblem) int {
		return cmp.Or(cmp.Compare(a.Module, b.Module), cmp.Compare(a.Location, b.Location))
	})
}
