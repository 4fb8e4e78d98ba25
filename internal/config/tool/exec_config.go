package tool

// ShellToolConfig configures the run-command tool.
type ShellToolConfig struct {
	// Interpreter is the argv prefix the command is appended to.
	Interpreter []string `json:"interpreter"`
	WorkingDir  string   `json:"workingDir,omitempty"`
}

func DefaultShellToolConfig() ShellToolConfig {
	return ShellToolConfig{Interpreter: []string{"sh", "-c"}}
}
