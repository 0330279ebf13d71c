package task

import "time"

// Parse turns the content of one task file into tasks, a sequence summary and
// warnings. The sequence's LastModified is the current time; callers that know
// the file's modification time should overwrite it.
func Parse(content, filename string) ParseResult {
	return ParseAt(content, filename, time.Now())
}

// ParseAt is Parse with an explicit LastModified timestamp.
func ParseAt(content, filename string, modified time.Time) ParseResult {
	rows, warnings := ParseTable(content)

	seqID := ExtractSequenceID(filename, content)
	seqName := ExtractSequenceName(content, filename)

	tasks := make([]Task, 0, len(rows))
	var breakdown Breakdown
	for _, r := range rows {
		t := Task{
			TaskID:       r.ID,
			TaskName:     r.Task,
			Status:       Normalize(r.Status),
			BlockedBy:    ParseDependencies(r.BlockedBy),
			Agent:        r.Agent,
			Priority:     r.Priority,
			SequenceID:   seqID,
			SequenceName: seqName,
			SourceFile:   filename,
		}
		breakdown[t.Status]++
		tasks = append(tasks, t)
	}

	if warnings == nil {
		warnings = []string{}
	}

	return ParseResult{
		Tasks: tasks,
		Sequence: Sequence{
			SequenceID:      seqID,
			SequenceName:    seqName,
			SourceFile:      filename,
			TotalTasks:      breakdown.Total(),
			CompletedTasks:  breakdown.Count(StatusComplete),
			StatusBreakdown: breakdown,
			LastModified:    modified,
		},
		Warnings: warnings,
	}
}
