package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"databricks-mcp/internal/app"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	svc := app.NewService()

	root := &cobra.Command{
		Use:          "databricks-mcp",
		Short:        "Databricks workspace credential tooling for MCP consumers",
		SilenceUsage: true,
	}

	root.AddCommand(newWhoAmICommand(svc))
	root.AddCommand(newTokenCommand(svc))
	root.AddCommand(newProfilesCommand(svc))
	root.AddCommand(newGenerateWorkflowsCommand(svc))

	return root
}

func addProfileFlags(cmd *cobra.Command, o *app.ProfileOverrides) {
	cmd.Flags().StringVar(&o.Profile, "profile", "", "Config profile name")
	cmd.Flags().StringVar(&o.Host, "host", "", "Workspace URL (overrides config and env)")
	cmd.Flags().StringVar(&o.Token, "token", "", "Personal access token (overrides config and env)")
}

func newWhoAmICommand(svc *app.Service) *cobra.Command {
	var overrides app.ProfileOverrides
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Check workspace access and show the authenticated identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := svc.WhoAmI(cmd.Context(), overrides)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(result)
			}
			fmt.Printf("profile: %s\n", zeroDefault(result.Profile, "-"))
			fmt.Printf("host: %s\n", result.Host)
			fmt.Printf("user: %s\n", zeroDefault(result.User.UserName, "-"))
			if result.User.DisplayName != "" {
				fmt.Printf("display_name: %s\n", result.User.DisplayName)
			}
			fmt.Printf("active: %v\n", result.User.Active)
			return nil
		},
	}
	addProfileFlags(cmd, &overrides)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func newTokenCommand(svc *app.Service) *cobra.Command {
	var overrides app.ProfileOverrides
	var jsonOut bool
	var show bool
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Derive the bearer token exposed to OAuth clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := svc.Token(cmd.Context(), overrides)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(result)
			}
			access := app.RedactSecret(result.Token.AccessToken)
			if show {
				access = result.Token.AccessToken
			}
			fmt.Printf("profile: %s\n", zeroDefault(result.Profile, "-"))
			fmt.Printf("host: %s\n", result.Host)
			fmt.Printf("access_token: %s\n", access)
			fmt.Printf("token_type: %s\n", result.Token.TokenType)
			fmt.Printf("expires_in: %d\n", result.Token.ExpiresIn)
			return nil
		},
	}
	addProfileFlags(cmd, &overrides)
	cmd.Flags().BoolVar(&show, "show", false, "Print the raw access token")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func newProfilesCommand(svc *app.Service) *cobra.Command {
	profiles := &cobra.Command{
		Use:   "profiles",
		Short: "Manage workspace config profiles",
	}
	profiles.AddCommand(newProfilesListCommand(svc))
	return profiles
}

func newProfilesListCommand(svc *app.Service) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles from the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, defaultName, err := svc.ListProfiles()
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(map[string]any{"profiles": names, "default": defaultName})
			}
			for _, name := range names {
				if name == defaultName {
					fmt.Printf("%s (default)\n", name)
					continue
				}
				fmt.Println(name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func newGenerateWorkflowsCommand(svc *app.Service) *cobra.Command {
	var outDir string
	var pythonVersion string
	var check bool
	var list bool
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "generate-workflows",
		Short: "Generate release workflow YAML files for the package matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				if jsonOut {
					return printJSON(app.ReleasePackages)
				}
				for _, pkg := range app.ReleasePackages {
					fmt.Printf("%s %s\n", pkg.Name, zeroDefault(pkg.WorkingDir, "."))
				}
				return nil
			}

			results, err := svc.Workflows(app.GenerateOptions{
				OutDir:        outDir,
				PythonVersion: pythonVersion,
			}, check)
			if err != nil {
				return err
			}
			drifted := false
			for _, item := range results {
				if item.Status != app.WorkflowWritten && item.Status != app.WorkflowUpToDate {
					drifted = true
				}
			}
			if jsonOut {
				if err := printJSON(results); err != nil {
					return err
				}
			} else {
				for _, item := range results {
					fmt.Printf("%s: %s (%s)\n", item.Package, item.Status, item.Path)
				}
			}
			if drifted {
				return app.WrapExit(app.ExitDrift, fmt.Errorf("workflow files are out of date (run generate-workflows)"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", ".github/workflows", "Directory to write workflow files into")
	cmd.Flags().StringVar(&pythonVersion, "python-version", "", "Python version for the build job (default 3.12)")
	cmd.Flags().BoolVar(&check, "check", false, "Verify files match the rendered output instead of writing")
	cmd.Flags().BoolVar(&list, "list", false, "List the package matrix and exit")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func zeroDefault(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
