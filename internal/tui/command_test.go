package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
		ok    bool
	}{
		{"plain question", "how long did it run?", Command{}, false},
		{"bare command", "/clear", Command{Name: "clear", Args: []string{}}, true},
		{"command with args", "/upload /tmp/a.pdf paper.pdf", Command{Name: "upload", Args: []string{"/tmp/a.pdf", "paper.pdf"}}, true},
		{"surrounding whitespace", "  /profiles  ", Command{Name: "profiles", Args: []string{}}, true},
		{"case folded", "/HELP", Command{Name: "help", Args: []string{}}, true},
		{"slash only", "/", Command{}, false},
		{"empty", "", Command{}, false},
		{"slash mid-sentence", "what does /clear do?", Command{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCommand(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want.Name, got.Name)
				assert.Equal(t, tt.want.Args, got.Args)
			}
		})
	}
}
