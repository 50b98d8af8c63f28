package tui

import "strings"

// Command is a parsed slash command from the input line.
type Command struct {
	Name string
	Args []string
}

// ParseCommand interprets input starting with '/' as a command; any
// other text is a question for the engine.
func ParseCommand(input string) (Command, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return Command{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(trimmed, "/"))
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

const helpText = `Commands:
  /new <name>            create a profile and make it active
  /profile <name>        switch profile (clears chat, reingests its documents)
  /profiles              list profiles
  /docs                  list documents in the active profile
  /upload <path> [name]  upload a document into the active profile
  /delete <name>         delete a profile and its documents
  /clear                 clear the chat and the loaded index
  /help                  show this help
Anything else is a question about the loaded documents.`
