// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (~/.bizrag/config.toml)
//   - PromptStore: user-editable generator prompts (~/.bizrag/prompts)
package file
