// Package file provides file-based implementations of driven port interfaces.
// Everything lives under ~/.reqbot by default.
//
// Adapters:
//   - ConfigStore: TOML configuration in config.toml
//   - PromptStore: editable prompt templates in prompts/
//   - PromptWatcher: reloads prompts when their files change
package file
