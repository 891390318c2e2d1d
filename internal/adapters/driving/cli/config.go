package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change settings in the config file (~/.bizrag/config.toml).

Keys use dotted names, e.g. embedding.provider or chunker.target_size.
Changes take effect on the next run.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a raw config value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a config value",
	Long: `Set a config value and save the file. Integers, decimals and true/false
are stored typed; anything else is stored as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [embedding|generation]",
	Short: "Store an API key without echoing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	s := appSettings

	cmd.Println("Current Settings")
	cmd.Println("================")
	if configStore != nil {
		cmd.Printf("Config file: %s\n", configStore.Path())
	}
	cmd.Println()

	cmd.Println("[Chunker]")
	cmd.Printf("  Target size: %d\n", s.Chunker.TargetSize)
	cmd.Printf("  Overlap: %d\n", s.Chunker.Overlap)
	cmd.Printf("  Min length: %d\n", s.Chunker.MinLength)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Top K: %d\n", s.Search.TopK)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", s.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", orDefault(s.Embedding.Model))
	cmd.Printf("  Base URL: %s\n", orDefault(s.Embedding.BaseURL))
	if s.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", keyStatus(s.Embedding.APIKey))
	}
	cmd.Printf("  Timeout: %s\n", s.Embedding.Timeout)
	cmd.Printf("  Concurrency: %d\n", s.Embedding.Concurrency)
	cmd.Printf("  Max retries: %d\n", s.Embedding.MaxRetries)
	cmd.Printf("  Status: %s\n", configuredStatus(s.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[Generation]")
	if s.Generation.Provider == "" {
		cmd.Println("  Provider: none (template reports)")
	} else {
		cmd.Printf("  Provider: %s\n", s.Generation.Provider.Description())
		cmd.Printf("  Model: %s\n", s.Generation.Model)
		cmd.Printf("  API Key: %s\n", keyStatus(s.Generation.APIKey))
		cmd.Printf("  Status: %s\n", configuredStatus(s.Generation.IsConfigured()))
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", s.Server.Addr)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	if strings.HasSuffix(args[0], "api_key") {
		val = maskAPIKey(fmt.Sprint(val))
	}
	cmd.Println(val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	key, value := args[0], parseValue(args[1])
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	section := args[0]
	if section != "embedding" && section != "generation" {
		return fmt.Errorf("unknown section %q: use embedding or generation", section)
	}

	cmd.Printf("Enter %s API key: ", section)
	apiKey := readPassword(cmd.InOrStdin())
	cmd.Println()
	if apiKey == "" {
		return errors.New("no API key entered")
	}

	key := section + ".api_key"
	if err := configStore.Set(key, apiKey); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("Saved %s (%s)\n", key, maskAPIKey(apiKey))
	return nil
}

// parseValue keeps numbers and booleans typed in the TOML file.
func parseValue(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	return s
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func keyStatus(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func orDefault(s string) string {
	if s == "" {
		return "(provider default)"
	}
	return s
}
