package pmgen

// ApplyTo controls which documents a matcher's problems are attached to
type ApplyTo string

// ApplyTo values understood by the editor
const (
	ApplyToAllDocuments    ApplyTo = "allDocuments"
	ApplyToOpenDocuments   ApplyTo = "openDocuments"
	ApplyToClosedDocuments ApplyTo = "closedDocuments"
)

// PatternKind tells the editor whether a pattern matches a whole file or a location in it
type PatternKind string

const (
	// KindFile reports problems against the whole file.
	KindFile PatternKind = "file"
	// KindLocation reports problems at a line/column inside the file. Editor default.
	KindLocation PatternKind = "location"
)

// Pattern is a single line-matching rule. Every role is the 1-based index of a
// capture group in Regexp (0 is the whole match).
type Pattern struct {
	Regexp    Expr        // `Error: (.*):(\d+)`
	Kind      PatternKind // "" leaves the editor default (location)
	File      int         // 3
	Location  int         // Group holding "line", "line,col" or "line,col,endLine,endCol"
	Line      int         // 4
	Column    int         // 5
	EndLine   int
	EndColumn int
	Severity  int
	Code      int
	Message   int  // 2
	Loop      bool // Only valid on the last pattern of a multi-line matcher
}

// Background describes how the editor detects start and end of a watch task
type Background struct {
	ActiveOnStart bool   `json:"activeOnStart,omitempty"`
	BeginsPattern string `json:"beginsPattern,omitempty"`
	EndsPattern   string `json:"endsPattern,omitempty"`
}

// Matcher is a fully resolved problem matcher. Its pattern is always set.
type Matcher struct {
	MatcherName  string        // "stylus" (emitted as "name")
	Label        string        // "Stylus Compilation Error Matcher"
	ApplyTo      ApplyTo       // "allDocuments"
	Owner        string        // Empty leaves the editor default ("external")
	Severity     string        // Empty leaves the editor default ("error")
	Base         string        // Name of a base matcher to inherit from
	FileLocation *FileLocation // ["autodetect"]
	Background   *Background
	Pattern      PatternValue
}

// Preset is a matcher kind: the defaults a Matcher is built from.
// A preset may omit its default pattern, in which case building it
// without an override fails.
type Preset struct {
	MatcherName  string
	Label        string
	ApplyTo      ApplyTo
	Owner        string
	Severity     string
	Base         string
	FileLocation *FileLocation
	Background   *Background
	Pattern      PatternValue
}
