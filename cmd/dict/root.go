package dict

import (
	"github.com/Attumm/valkey-dict/cmd/util"
	"github.com/Attumm/valkey-dict/lib/dict"
	"github.com/Attumm/valkey-dict/lib/store"
	"github.com/Attumm/valkey-dict/lib/store/rstore"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	backend   store.IStore
	container *dict.Dict
	logger    zerolog.Logger

	// DictCommands represents the dict command group
	DictCommands = &cobra.Command{
		Use:                "dict",
		Short:              "Perform dictionary operations against the server",
		PersistentPreRunE:  setupClient,
		PersistentPostRunE: teardownClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common connection and container flags to the dict command
	util.SetupClientFlags(DictCommands)

	// Add subcommands
	DictCommands.AddCommand(setCmd)
	DictCommands.AddCommand(getCmd)
	DictCommands.AddCommand(delCmd)
	DictCommands.AddCommand(hasCmd)
	DictCommands.AddCommand(popCmd)
	DictCommands.AddCommand(setDefaultCmd)
	DictCommands.AddCommand(keysCmd)
	DictCommands.AddCommand(lenCmd)
	DictCommands.AddCommand(ttlCmd)
	DictCommands.AddCommand(clearCmd)
	DictCommands.AddCommand(perfTestCmd)
}

// setupClient connects to the server and builds the dictionary container
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	logger = util.NewLogger()

	opts := util.GetStoreOptions()
	logger.Debug().
		Str("address", opts.Address).
		Int("db", opts.DB).
		Msg("connecting to server")

	backend = rstore.NewClient(opts)
	container = dict.New(backend, util.GetDictConfig())
	return nil
}

// teardownClient closes the server connection
func teardownClient(_ *cobra.Command, _ []string) error {
	if backend == nil {
		return nil
	}
	return backend.Close()
}
