package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSequenceID(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     string
	}{
		{"from filename", "004-parser-tasks.md", "Seq: 009", "004"},
		{"from content colon", "tasks.md", "# Tasks\nSeq: 012\n", "012"},
		{"from content space", "tasks.md", "seq 007 overview", "007"},
		{"needs three digits in filename", "04-tasks.md", "", DefaultSequenceID},
		{"fallback", "tasks.md", "# Tasks", DefaultSequenceID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSequenceID(tt.filename, tt.content))
		})
	}
}

func TestExtractSequenceName(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		want     string
	}{
		{"heading task list", "# ProjectManagerAgent Task List\n", "x.md", "ProjectManagerAgent"},
		{"heading tasks", "intro\n# Parser Tasks\n", "x.md", "Parser"},
		{"heading case insensitive", "# Parser TASKLIST\n", "x.md", "Parser"},
		{"heading plain", "# Core Platform\n", "x.md", "Core Platform"},
		{"heading only suffix", "# Tasks\n", "003-project-manager-tasks.md", "Tasks"},
		{"h2 ignored", "## Not This\n", "003-project-manager-tasks.md", "project-manager"},
		{"filename single task suffix", "", "005-api-task.md", "api"},
		{"filename without suffix", "", "006-frontend.md", "frontend"},
		{"filename without number", "", "notes.md", "notes"},
		{"filename upper ext", "", "NOTES.MD", "NOTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSequenceName(tt.content, tt.filename))
		})
	}
}
