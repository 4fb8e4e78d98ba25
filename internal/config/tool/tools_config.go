package tool

// ToolsConfig groups all tool-level settings.
type ToolsConfig struct {
	Web   WebToolsConfig  `json:"web"`
	Shell ShellToolConfig `json:"shell"`
}

func DefaultToolConfigs() ToolsConfig {
	return ToolsConfig{
		Web:   DefaultWebToolsConfig(),
		Shell: DefaultShellToolConfig(),
	}
}
