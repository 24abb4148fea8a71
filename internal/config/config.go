package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// defaultHistoryLimit caps the history pane when the config doesn't say.
const defaultHistoryLimit = 200

// Config holds the persisted client settings
type Config struct {
	Repos                []string        `json:"repos"`                             // Recently opened repositories
	Theme                string          `json:"theme,omitempty"`                   // UI theme name (e.g., "dark-purple", "nord")
	NotificationsEnabled bool            `json:"notifications_enabled,omitempty"`   // Desktop notifications when an operation finishes
	MergeNoCommit        bool            `json:"merge_no_commit,omitempty"`         // Stop before committing clean merges
	RepoSquashOnMerge    map[string]bool `json:"repo_squash_on_merge,omitempty"`    // Per-repo squash-on-merge default
	RebaseAutostash      bool            `json:"rebase_autostash,omitempty"`        // Stash dirty worktrees before rebasing
	HistoryLimit         int             `json:"history_limit,omitempty"`           // Commits the history pane loads per refresh

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".regraft"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or creates a new one if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Repos:             []string{},
		RepoSquashOnMerge: make(map[string]bool),
		filePath:          path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Ensure slices and maps are initialized (not nil) after unmarshaling
	// This must happen before Validate() since Validate() only reads
	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureInitialized ensures all slices and maps are initialized (not nil).
// Only called during single-threaded initialization, before the Config is
// shared across goroutines.
func (c *Config) ensureInitialized() {
	if c.Repos == nil {
		c.Repos = []string{}
	}
	if c.RepoSquashOnMerge == nil {
		c.RepoSquashOnMerge = make(map[string]bool)
	}
}

// Validate checks that the config is internally consistent.
// This is a read-only operation - call ensureInitialized() first if needed.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seenRepos := make(map[string]bool)
	for _, repo := range c.Repos {
		if repo == "" {
			return fmt.Errorf("empty repo path found")
		}
		if seenRepos[repo] {
			return fmt.Errorf("duplicate repo: %s", repo)
		}
		seenRepos[repo] = true
	}

	if c.HistoryLimit < 0 {
		return fmt.Errorf("history limit cannot be negative: %d", c.HistoryLimit)
	}

	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dir, err := configDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.filePath, data, 0644)
}

// AddRepo adds a repository path if it doesn't already exist
func (c *Config) AddRepo(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.Repos {
		if r == path {
			return false
		}
	}

	c.Repos = append(c.Repos, path)
	return true
}

// RemoveRepo removes a repository from the config.
// Returns true if the repo was found and removed, false otherwise.
func (c *Config) RemoveRepo(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, r := range c.Repos {
		if r == path {
			c.Repos = append(c.Repos[:i], c.Repos[i+1:]...)
			return true
		}
	}
	return false
}

// GetRepos returns a copy of the repos slice
func (c *Config) GetRepos() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	repos := make([]string, len(c.Repos))
	copy(repos, c.Repos)
	return repos
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetMergeNoCommit returns whether merges stop before committing.
// The default, false, commits clean merges immediately like git merge.
func (c *Config) GetMergeNoCommit() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.MergeNoCommit
}

// SetMergeNoCommit sets whether merges stop before committing
func (c *Config) SetMergeNoCommit(noCommit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.MergeNoCommit = noCommit
}

// GetSquashOnMerge returns whether squash-on-merge is enabled for a repo
func (c *Config) GetSquashOnMerge(repoPath string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.RepoSquashOnMerge == nil {
		return false
	}
	return c.RepoSquashOnMerge[repoPath]
}

// SetSquashOnMerge sets whether squash-on-merge is enabled for a repo
func (c *Config) SetSquashOnMerge(repoPath string, enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.RepoSquashOnMerge == nil {
		c.RepoSquashOnMerge = make(map[string]bool)
	}
	if enabled {
		c.RepoSquashOnMerge[repoPath] = true
	} else {
		delete(c.RepoSquashOnMerge, repoPath)
	}
}

// GetRebaseAutostash returns whether rebases stash a dirty worktree first
func (c *Config) GetRebaseAutostash() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RebaseAutostash
}

// SetRebaseAutostash sets whether rebases stash a dirty worktree first
func (c *Config) SetRebaseAutostash(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RebaseAutostash = enabled
}

// GetHistoryLimit returns how many commits the history pane loads,
// defaulting when unset
func (c *Config) GetHistoryLimit() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.HistoryLimit <= 0 {
		return defaultHistoryLimit
	}
	return c.HistoryLimit
}

// SetHistoryLimit sets how many commits the history pane loads
func (c *Config) SetHistoryLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.HistoryLimit = n
}
