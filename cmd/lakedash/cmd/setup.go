package cmd

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for first-run configuration",
	Long: `Interactive wizard that writes config.toml.

Asks for the backend URL and an optional access token, then saves the
configuration to the lakedash home directory. Run it again any time;
existing values are offered as defaults.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	backendURL := cfg.Backend.URL
	token := cfg.Backend.Token
	allowInsecure := cfg.Backend.AllowInsecure
	previewRows := cfg.UI.PreviewRows

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Base URL of the deployed warehouse app").
				Placeholder("https://myapp.example.com").
				Value(&backendURL).
				Validate(validateBackendURL),
			huh.NewInput().
				Title("Access token").
				Description("Leave blank when the app proxy handles auth").
				EchoMode(huh.EchoModePassword).
				Value(&token),
			huh.NewConfirm().
				Title("Allow plain http:// connections?").
				Description("Required for the local demo backend").
				Value(&allowInsecure),
			huh.NewSelect[int]().
				Title("Preview rows").
				Description("Rows shown in the email listing preview").
				Options(
					huh.NewOption("10", 10),
					huh.NewOption("20", 20),
					huh.NewOption("50", 50),
				).
				Value(&previewRows),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Setup cancelled.")
			return nil
		}
		return fmt.Errorf("run setup form: %w", err)
	}

	cfg.Backend.URL = backendURL
	cfg.Backend.Token = token
	cfg.Backend.AllowInsecure = allowInsecure
	cfg.UI.PreviewRows = previewRows

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Configuration saved to %s\n", cfg.ConfigPath())
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println()
	fmt.Println("  1. Check connectivity:")
	fmt.Println("     lakedash ping")
	fmt.Println()
	fmt.Println("  2. Open the dashboard:")
	fmt.Println("     lakedash dash")
	fmt.Println()
	fmt.Println("For more help: lakedash --help")
	return nil
}

func validateBackendURL(s string) error {
	if s == "" {
		return errors.New("backend URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}
