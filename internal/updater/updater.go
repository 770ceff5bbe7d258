package updater

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/furkhad/youtube/internal/core/version"
)

const (
	repoOwner = "furkhad"
	repoName  = "youtube"
	assetName = "tubegrab"
)

func newUpdater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, err
	}

	return selfupdate.NewUpdater(selfupdate.Config{
		Source:  source,
		Filters: []string{"^" + assetName + "_"},
	})
}

func detectLatest(ctx context.Context, updater *selfupdate.Updater) (*selfupdate.Release, error) {
	latest, found, err := updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no releases found for %s/%s", repoOwner, repoName)
	}
	return latest, nil
}

// CheckUpdate checks if a new version is available
func CheckUpdate(ctx context.Context) (*selfupdate.Release, bool, error) {
	updater, err := newUpdater()
	if err != nil {
		return nil, false, err
	}

	latest, err := detectLatest(ctx, updater)
	if err != nil {
		return nil, false, err
	}

	if latest.LessOrEqual(currentVersion()) {
		return latest, false, nil
	}
	return latest, true, nil
}

// Update replaces the running executable with the latest release
func Update(ctx context.Context, w io.Writer) error {
	updater, err := newUpdater()
	if err != nil {
		return err
	}

	latest, err := detectLatest(ctx, updater)
	if err != nil {
		return err
	}

	current := currentVersion()
	if latest.LessOrEqual(current) {
		fmt.Fprintf(w, "Already up to date (v%s)\n", current)
		return nil
	}

	fmt.Fprintf(w, "Updating from v%s to %s...\n", current, latest.Version())

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	fmt.Fprintf(w, "Successfully updated to %s\n", latest.Version())
	return nil
}

// currentVersion returns version.Version without the "v" prefix
func currentVersion() string {
	return strings.TrimPrefix(version.Version, "v")
}

// GetPlatformAssetName returns the expected asset name for the current platform
func GetPlatformAssetName() string {
	return fmt.Sprintf("%s_%s_%s", assetName, runtime.GOOS, runtime.GOARCH)
}
