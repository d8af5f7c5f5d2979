// ABOUTME: CLI commands for Charm-based curation sync.
// ABOUTME: Supports link, unlink, status, push, pull, and wipe operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/lifelog/lifelog/internal/charm"
	"github.com/lifelog/lifelog/internal/models"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync curation decisions across devices",
	Long: `Sync curation decisions across devices using Charm Cloud.

Only pins, dismissals, and feedback are synced; correlations themselves are
recomputed from local daily metrics on each device. Data is E2E encrypted
with your SSH key before upload.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     lifelog sync link

  2. On other devices, link with the same Charm account:
     lifelog sync link

  3. Push and pull curation state:
     lifelog sync push
     lifelog sync pull

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  push        Upload curation state and feedback
  pull        Apply remote curation state locally
  wipe        Delete cloud and local sync data (destructive)

With auto_sync enabled in config, pins and dismissals push automatically.`,
}

// pushCuration uploads one correlation's status, used by auto-sync.
func pushCuration(c *models.Correlation) error {
	client, err := charm.GetClient()
	if err != nil {
		return err
	}
	return client.PushCuration(c)
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.
If you already have an account, you'll be prompted to link via charm.sh.

Example:
  lifelog sync link`,
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "link")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked to Charm")
		fmt.Println("Curation decisions will now sync across devices.")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local data.
You can link again later with 'lifelog sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "unlink")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}

		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.GetClient()
		if err != nil {
			color.Yellow("Charm client not available: %v", err)
			fmt.Println("\nRun 'lifelog sync link' to connect to Charm.")
			return nil
		}

		id, err := client.ID()
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'lifelog sync link' to connect to Charm.")
			return nil
		}

		fmt.Println("Charm ID:", id)
		fmt.Println("Server: charm.2389.dev")
		fmt.Println()

		curations, _ := client.PullCurations()
		feedback, _ := client.PullFeedback()

		color.Green("✓ Connected to Charm")
		fmt.Printf("  Synced curations: %d\n", len(curations))
		fmt.Printf("  Synced feedback:  %d\n", len(feedback))
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload curation state and feedback",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.GetClient()
		if err != nil {
			return fmt.Errorf("failed to initialize charm client: %w", err)
		}

		pushed, err := client.PushAll(cmd.Context(), repo, cfg.GetUserID())
		if err != nil {
			return fmt.Errorf("push failed after %d records: %w", pushed, err)
		}

		color.Green("✓ Pushed %d curation records", pushed)
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Apply remote curation state locally",
	Long: `Pull curation records from Charm Cloud and apply them to local
correlations. A remote status wins when it differs from the local one.
Records without a local counterpart are skipped; run 'lifelog scan' first
so the correlations exist to be curated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.GetClient()
		if err != nil {
			return fmt.Errorf("failed to initialize charm client: %w", err)
		}

		applied, err := client.ApplyRemote(cmd.Context(), repo, cfg.GetUserID())
		if err != nil {
			return fmt.Errorf("pull failed after %d updates: %w", applied, err)
		}

		color.Green("✓ Applied %d remote curation updates", applied)
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local sync data",
	Long: `Delete all cloud backups and local sync data.

This is a DESTRUCTIVE operation for the sync store only; the SQLite
database with your daily metrics and correlations is untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will PERMANENTLY DELETE all cloud sync data.")
		fmt.Print("Type 'wipe' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "wipe" {
			fmt.Println("Canceled.")
			return nil
		}

		result, err := kv.Wipe("lifelog")
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Sync data wiped")
		fmt.Printf("  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Printf("  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncWipeCmd)

	rootCmd.AddCommand(syncCmd)
}
