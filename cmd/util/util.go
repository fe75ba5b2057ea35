package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/Attumm/valkey-dict/lib/dict"
	"github.com/Attumm/valkey-dict/lib/store/rstore"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupClientFlags adds the server connection and container flags to a command
func SetupClientFlags(cmd *cobra.Command) {
	key := "address"
	cmd.PersistentFlags().String(key, "localhost:6379", WrapString("The host:port address of the Valkey/Redis server"))

	key = "password"
	cmd.PersistentFlags().String(key, "", WrapString("The password for the server, empty for no authentication"))

	key = "db"
	cmd.PersistentFlags().Int(key, 0, WrapString("The logical database to select"))

	key = "namespace"
	cmd.PersistentFlags().String(key, dict.DefaultNamespace, WrapString("The namespace all keys of the dictionary live under"))

	key = "expire"
	cmd.PersistentFlags().Duration(key, 0, WrapString("TTL applied to written keys, 0 stores keys without expiration"))

	key = "preserve-expiration"
	cmd.PersistentFlags().Bool(key, false, WrapString("Keep the existing TTL when updating an existing key"))

	key = "strict-delete"
	cmd.PersistentFlags().Bool(key, false, WrapString("Fail when deleting a key that does not exist"))

	key = "batch-size"
	cmd.PersistentFlags().Int64(key, dict.DefaultBatchSize, WrapString("COUNT hint passed to scan commands"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "info", WrapString("Log level (debug, info, warn, error)"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("vdict")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetStoreOptions reads the server connection options from viper
func GetStoreOptions() rstore.Options {
	opts := rstore.DefaultOptions()
	opts.Address = viper.GetString("address")
	opts.Password = viper.GetString("password")
	opts.DB = viper.GetInt("db")
	return opts
}

// GetDictConfig reads the container configuration from viper
func GetDictConfig() dict.Config {
	return dict.Config{
		Namespace:          viper.GetString("namespace"),
		Expire:             viper.GetDuration("expire"),
		PreserveExpiration: viper.GetBool("preserve-expiration"),
		StrictDelete:       viper.GetBool("strict-delete"),
		BatchSize:          viper.GetInt64("batch-size"),
	}
}

// ClientSettings is the printable summary of the active configuration.
type ClientSettings struct {
	Address   string
	DB        int
	Namespace string
	Expire    time.Duration
}

// GetClientSettings reads the summary fields from viper
func GetClientSettings() ClientSettings {
	return ClientSettings{
		Address:   viper.GetString("address"),
		DB:        viper.GetInt("db"),
		Namespace: viper.GetString("namespace"),
		Expire:    viper.GetDuration("expire"),
	}
}

// String returns a formatted string representation of the configuration
func (c ClientSettings) String() string {
	var sb strings.Builder

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	sb.WriteString("\nCLIENT CONFIGURATION\n")
	addField("Address", c.Address)
	addField("Database", fmt.Sprintf("%d", c.DB))
	addField("Namespace", c.Namespace)
	addField("Expire", c.Expire.String())

	return sb.String()
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
