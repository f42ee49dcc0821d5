package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"immimate-hq/polaris/pkg/cli"
	"immimate-hq/polaris/pkg/profile"
)

var profilesFlags struct {
	file        string
	application string
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage applicant profiles",
	Long: `Import and inspect applicant immigration profiles.

Profiles are point-in-time snapshots in JSON. Importing a profile for an
application replaces its previous snapshot.

Examples:
  # Import a profile snapshot
  polaris profiles import --file applicant.json

  # Show the stored profile for an application
  polaris profiles show --application 6a1f...`,
}

var profilesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an applicant profile from JSON",
	RunE:  runProfilesImport,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a stored applicant profile",
	RunE:  runProfilesShow,
}

func runProfilesImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(profilesFlags.file)
	if err != nil {
		return cli.NewCommandError("profiles import", err)
	}

	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return cli.NewCommandError("profiles import", fmt.Errorf("parse profile JSON: %w", err))
	}
	if p.ApplicationID == uuid.Nil {
		p.ApplicationID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.LastModifiedAt = now

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.profiles.Save(cmd.Context(), &p); err != nil {
		return cli.NewCommandError("profiles import", err)
	}
	fmt.Printf("Imported profile for application %s\n", p.ApplicationID)
	return nil
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	applicationID, err := uuid.Parse(profilesFlags.application)
	if err != nil {
		return fmt.Errorf("invalid application ID %q: %w", profilesFlags.application, err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.profiles.FindByApplicationID(cmd.Context(), applicationID)
	if err != nil {
		return cli.NewCommandError("profiles show", err)
	}

	formatter := &cli.JSONFormatter{Indent: true}
	return formatter.FormatTo(os.Stdout, p)
}

func init() {
	profilesImportCmd.Flags().StringVar(&profilesFlags.file, "file", "", "profile JSON file")
	_ = profilesImportCmd.MarkFlagRequired("file")

	profilesShowCmd.Flags().StringVar(&profilesFlags.application, "application", "", "application ID")
	_ = profilesShowCmd.MarkFlagRequired("application")

	profilesCmd.AddCommand(profilesImportCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	rootCmd.AddCommand(profilesCmd)
}
