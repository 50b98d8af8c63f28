package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"docchat/internal/logger"
	"docchat/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage document profiles",
	Long:  `Create, delete and inspect named document collections without starting the chat.`,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileCreate,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a profile and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileDocsCmd = &cobra.Command{
	Use:   "docs [name]",
	Short: "List documents in a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDocs,
}

// addAs is a flag for the add command.
var addAs string

var profileAddCmd = &cobra.Command{
	Use:   "add [name] [file]",
	Short: "Add a document to a profile",
	Long:  `Copies the file into the profile. It is ingested into the index the next time the profile is selected in the chat.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileAdd,
}

func init() {
	profileAddCmd.Flags().StringVar(&addAs, "as", "", "display name to store the document under (default: file name)")

	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileDocsCmd)
	profileCmd.AddCommand(profileAddCmd)
	rootCmd.AddCommand(profileCmd)
}

func withStore(fn func(profile.Store) error) error {
	logger.SetVerbose(verboseFlag)
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	store, err := buildProfileStore(cfg)
	if err != nil {
		return fmt.Errorf("profile store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	return withStore(func(store profile.Store) error {
		if err := store.Create(args[0]); err != nil {
			return err
		}
		cmd.Printf("Created profile: %s\n", args[0])
		return nil
	})
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	return withStore(func(store profile.Store) error {
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		cmd.Printf("Deleted profile: %s\n", args[0])
		return nil
	})
}

func runProfileList(cmd *cobra.Command, args []string) error {
	return withStore(func(store profile.Store) error {
		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			cmd.Println("No profiles.")
			return nil
		}
		for _, name := range names {
			cmd.Println(name)
		}
		return nil
	})
}

func runProfileDocs(cmd *cobra.Command, args []string) error {
	return withStore(func(store profile.Store) error {
		docs, err := store.Documents(args[0])
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			cmd.Printf("No documents in profile: %s\n", args[0])
			return nil
		}
		for _, doc := range docs {
			cmd.Println(doc)
		}
		return nil
	})
}

func runProfileAdd(cmd *cobra.Command, args []string) error {
	return withStore(func(store profile.Store) error {
		name := addAs
		if name == "" {
			name = filepath.Base(args[1])
		}
		if err := store.AddDocument(args[0], args[1], name); err != nil {
			return err
		}
		cmd.Printf("Added %s to profile %s\n", name, args[0])
		return nil
	})
}
