package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/ini.v1"
)

func NewListProfilesCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-profiles",
		Short: "List AWS profiles from shared config files",
		Long: `Scan ~/.aws/credentials and ~/.aws/config for profile names.

Useful for finding a value to pass to --profile. The
AWS_SHARED_CREDENTIALS_FILE and AWS_CONFIG_FILE environment variables
are honored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := sharedProfiles()
			if err != nil {
				return err
			}

			if len(profiles) == 0 {
				opts.logger().Warn("No AWS profiles found")
				return nil
			}

			for _, name := range profiles {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	return cmd
}

// sharedProfiles merges profile names from both shared files. Missing
// files are skipped; a profile defined in both appears once.
func sharedProfiles() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	credentialsFile := os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	if credentialsFile == "" {
		credentialsFile = filepath.Join(home, ".aws", "credentials")
	}
	configFile := os.Getenv("AWS_CONFIG_FILE")
	if configFile == "" {
		configFile = filepath.Join(home, ".aws", "config")
	}

	seen := make(map[string]bool)

	if f, err := ini.Load(credentialsFile); err == nil {
		for _, section := range f.Sections() {
			if name := section.Name(); name != ini.DefaultSection {
				seen[name] = true
			}
		}
	}

	if f, err := ini.Load(configFile); err == nil {
		for _, section := range f.Sections() {
			name := section.Name()
			if name == ini.DefaultSection {
				continue
			}
			// Config file sections are written as "profile <name>",
			// except the default profile.
			name = strings.TrimPrefix(name, "profile ")
			seen[name] = true
		}
	}

	profiles := make([]string, 0, len(seen))
	for name := range seen {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles, nil
}
