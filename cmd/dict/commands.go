package dict

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// parseValue coerces a command-line argument into a typed value: integer,
// float and bool literals become their type, "none" becomes nil, everything
// else stays a string. The --raw flag on set bypasses the coercion.
func parseValue(arg string) any {
	if i, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}
	switch arg {
	case "true":
		return true
	case "false":
		return false
	case "none":
		return nil
	}
	return arg
}

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := parseValue(args[1])
			if raw, _ := cmd.Flags().GetBool("raw"); raw {
				value = args[1]
			}
			if err := container.Set(cmd.Context(), key, value); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, found, err := container.Get(cmd.Context(), key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, value=%v\n", key, found, value)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			found, err := container.Has(cmd.Context(), key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%t\n", key, found)
			return nil
		},
	}
	popCmd = &cobra.Command{
		Use:   "pop [key]",
		Short: "Removes a key and prints its value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := container.Pop(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%v\n", value)
			return nil
		},
	}
	setDefaultCmd = &cobra.Command{
		Use:   "setdefault [key] [value]",
		Short: "Sets the value for a key if unset and prints the stored value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := container.SetDefault(cmd.Context(), args[0], parseValue(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("%v\n", value)
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys [prefix]",
		Short: "Lists the keys of the dictionary, optionally filtered by prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			it := container.KeysWithPrefix(cmd.Context(), prefix)
			for it.Next() {
				fmt.Println(it.Key())
			}
			return it.Err()
		},
	}
	lenCmd = &cobra.Command{
		Use:   "len",
		Short: "Prints the number of keys in the dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := container.Len(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		},
	}
	ttlCmd = &cobra.Command{
		Use:   "ttl [key]",
		Short: "Prints the remaining time to live of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			ttl, ok, err := container.TTL(cmd.Context(), key)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("key=%s, no expiration\n", key)
				return nil
			}
			fmt.Printf("key=%s, ttl=%s\n", key, ttl)
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes every key of the dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("clear successfully")
			return nil
		},
	}
)

func init() {
	setCmd.Flags().Bool("raw", false, "store the value as a string without literal coercion")
}
