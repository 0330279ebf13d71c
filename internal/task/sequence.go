package task

import (
	"regexp"
	"strings"
)

// DefaultSequenceID is used when neither the filename nor the content names one.
const DefaultSequenceID = "000"

var (
	filenameSeqRe  = regexp.MustCompile(`^(\d{3})-`)
	contentSeqRe   = regexp.MustCompile(`(?i)Seq[:\s]+(\d{3})`)
	headingRe      = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	taskListSuffix = regexp.MustCompile(`(?i)\s+Task\s*List$`)
	tasksSuffix    = regexp.MustCompile(`(?i)\s+Tasks$`)
	filenameNameRe = regexp.MustCompile(`(?i)^\d{3}-(.+?)(?:-tasks?)?$`)
	mdExtRe        = regexp.MustCompile(`(?i)\.md$`)
)

// ExtractSequenceID derives a three-digit sequence ID from the filename
// ("004-foo.md"), then from a "Seq: NNN" marker in the content.
func ExtractSequenceID(filename, content string) string {
	if m := filenameSeqRe.FindStringSubmatch(filename); m != nil {
		return m[1]
	}
	if m := contentSeqRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return DefaultSequenceID
}

// ExtractSequenceName returns the first H1 heading with any trailing
// "Task List" or "Tasks" removed, falling back to a name derived from the
// filename ("003-project-manager-tasks.md" becomes "project-manager").
func ExtractSequenceName(content, filename string) string {
	if m := headingRe.FindStringSubmatch(content); m != nil {
		heading := strings.TrimSpace(m[1])
		heading = taskListSuffix.ReplaceAllString(heading, "")
		heading = tasksSuffix.ReplaceAllString(heading, "")
		if heading = strings.TrimSpace(heading); heading != "" {
			return heading
		}
	}

	base := mdExtRe.ReplaceAllString(filename, "")
	if m := filenameNameRe.FindStringSubmatch(base); m != nil {
		return m[1]
	}
	return base
}
