package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dukerupert/pantrypal/internal/push"
)

var vapidKeysCmd = &cobra.Command{
	Use:   "vapid-keys",
	Short: "Generate a VAPID key pair for web push reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			return err
		}
		fmt.Println(color.CyanString("Add these to your environment:"))
		fmt.Printf("PANTRYPAL_VAPID_PUBLIC_KEY=%s\n", pub)
		fmt.Printf("PANTRYPAL_VAPID_PRIVATE_KEY=%s\n", priv)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vapidKeysCmd)
}
