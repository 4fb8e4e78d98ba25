package agent

import (
	"fmt"
	"time"
)

// now is replaced in tests.
var now = time.Now

// BuildSystemPrompt returns the first message of every conversation.
// With tools enabled the prompt teaches both directive grammars.
func BuildSystemPrompt(model string, toolsEnabled bool) string {
	if !toolsEnabled {
		return fmt.Sprintf("You are an AI assistant powered by the %s model.", model)
	}
	return fmt.Sprintf(`You are a helpful AI assistant powered by the %s model.
You have the ability to run any Linux shell command.
Your response MUST be ONLY the tool command. Do not add any explanation.
Do NOT use interactive commands (like 'nano', 'vim'). Use non-interactive commands like `+"`cat`"+` to read files.

Tool format:
- Run a shell command: `+"`[RUN_COMMAND <command to run>]`"+`
- Search the web: `+"`[SEARCH: your query]`"+`. Current year: %d`, model, now().Year())
}
