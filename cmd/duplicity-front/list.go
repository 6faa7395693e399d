package main

import (
	"fmt"
	"strings"

	"github.com/fgeck/duplicity-front/internal/config"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), repositoryTable(store))
		return nil
	},
}

// repositoryTable renders one row per repository, sorted by name.
// Passphrases are never shown.
func repositoryTable(store *config.Store) string {
	w := table.NewWriter()
	w.AppendHeader(table.Row{
		"NAME", "MODE", "SOURCE", "REMOTE", "SUB-REPOSITORIES", "SUDO", "PASSPHRASE",
	})
	for _, name := range store.Names() {
		repo, err := store.Lookup(name)
		if err != nil {
			continue
		}

		mode, source, remote := "group", "", ""
		if repo.IsLeaf() {
			mode, source, remote = "backup", *repo.Source, *repo.Remote
		}
		passphrase := ""
		if repo.Passphrase != nil {
			passphrase = "(configured)"
		}

		w.AppendRow(table.Row{
			name, mode, source, remote, strings.Join(repo.SubRepositories, "\n"), repo.Sudo, passphrase,
		})
	}
	return w.Render()
}
