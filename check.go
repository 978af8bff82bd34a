package pmgen

import "fmt"

// Issue is a problem found in a matcher definition. Issues are advisory:
// nothing in the patch path fails because of them.
type Issue struct {
	FromCheck string `json:"FromCheck"` // "groups"
	Text      string `json:"Text"`      // "column references group 6 but the regexp has 5 groups"
	Severity  string `json:"Severity"`  // "warning"
	Pattern   int    `json:"Pattern"`   // Index in the pattern sequence
	Role      string `json:"Role"`      // "column"
}

// Issue severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Check names
const (
	CheckGroups = "groups"
	CheckShape  = "shape"
)

// Issue texts
const (
	IssueGroupOutOfRange = "%s references group %d but the regexp has %d groups"
	IssueLoopNotLast     = "loop is only valid on the last pattern"
	IssueNoLocation      = "pattern has neither line nor location group"
	IssueBothLocations   = "pattern sets both location and line groups"
)

type role struct {
	name  string
	group int
}

func roles(p Pattern) []role {
	return []role{
		{"file", p.File},
		{"location", p.Location},
		{"line", p.Line},
		{"column", p.Column},
		{"endLine", p.EndLine},
		{"endColumn", p.EndColumn},
		{"severity", p.Severity},
		{"code", p.Code},
		{"message", p.Message},
	}
}

// Check reports capture-group roles that point past the groups of their
// regexp, and pattern sequences the editor would reject. Patterns whose
// regexp does not compile are not checked.
func Check(m Matcher) []Issue {
	patterns := m.Pattern.Patterns()

	var issues []Issue
	located := false
	for i, p := range patterns {
		if p.Loop && i != len(patterns)-1 {
			issues = append(issues, Issue{
				FromCheck: CheckShape,
				Text:      IssueLoopNotLast,
				Severity:  SeverityWarning,
				Pattern:   i,
				Role:      "loop",
			})
		}

		if p.Line != 0 && p.Location != 0 {
			issues = append(issues, Issue{FromCheck: CheckShape, Text: IssueBothLocations, Severity: SeverityWarning, Pattern: i})
		}
		if p.Line != 0 || p.Location != 0 || p.Kind == KindFile {
			located = true
		}

		count, err := p.Regexp.GroupCount()
		if err != nil {
			continue
		}
		for _, r := range roles(p) {
			if r.group > count {
				issues = append(issues, Issue{
					FromCheck: CheckGroups,
					Text:      fmt.Sprintf(IssueGroupOutOfRange, r.name, r.group, count),
					Severity:  SeverityWarning,
					Pattern:   i,
					Role:      r.name,
				})
			}
		}
	}

	if len(patterns) > 0 && !located {
		issues = append(issues, Issue{FromCheck: CheckShape, Text: IssueNoLocation, Severity: SeverityWarning})
	}
	return issues
}
