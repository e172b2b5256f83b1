package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/prefsdoc/internal/settings/model"
)

func newKeybindingsCmd() *cobra.Command {
	var bodyPath string
	var lang string

	cmd := &cobra.Command{
		Use:   "keybindings",
		Short: "Render the default key bindings document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyLanguage(lang); err != nil {
				return err
			}

			provider := func() string { return "[]" }
			if bodyPath != "" {
				data, err := os.ReadFile(bodyPath)
				if err != nil {
					return fmt.Errorf("read key bindings body: %w", err)
				}
				body := strings.TrimRight(string(data), "\n")
				provider = func() string { return body }
			}

			km := model.NewKeybindingsModel(provider)
			fmt.Println(km.Content())
			return nil
		},
	}

	cmd.Flags().StringVar(&bodyPath, "body", "", "file holding the key bindings body (default: an empty list)")
	cmd.Flags().StringVar(&lang, "lang", "", "language for the header comment (BCP 47 tag, e.g. de)")

	return cmd
}
