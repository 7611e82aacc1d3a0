package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Kamar-Folarin/repo-mirror/internal/models"
	"github.com/Kamar-Folarin/repo-mirror/internal/utils"
)

type seedFile struct {
	Repositories []*models.RepositoryRecord `yaml:"repositories"`
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "Upsert registry repositories from a YAML file",
		Example: `  server seed --file repos.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := loadSeedFile(file)
			if err != nil {
				return err
			}

			a, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, repo := range repos {
				if err := a.store.SaveRepository(cmd.Context(), repo); err != nil {
					return err
				}
				a.logger.WithField("repository_id", repo.ID).Info("Seeded repository")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d repositories\n", len(repos))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML file listing repositories (id, name, url)")
	cmd.MarkFlagRequired("file")

	return cmd
}

// loadSeedFile parses and validates a seed file
func loadSeedFile(path string) ([]*models.RepositoryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	seen := make(map[string]bool, len(seed.Repositories))
	for i, repo := range seed.Repositories {
		if repo == nil || repo.ID == "" || repo.URL == "" {
			return nil, fmt.Errorf("repository %d: id and url are required", i)
		}
		if seen[repo.ID] {
			return nil, fmt.Errorf("repository %s: duplicate id", repo.ID)
		}
		seen[repo.ID] = true

		if !utils.IsValidGitHubURL(repo.URL) {
			return nil, fmt.Errorf("repository %s: %q is not a GitHub repository URL", repo.ID, repo.URL)
		}
		if repo.Name == "" {
			_, name, _ := utils.ParseGitHubURL(repo.URL)
			repo.Name = name
		}
		repo.Status = models.StatusPending
	}

	return seed.Repositories, nil
}
