/*
Package config manages the TOML config for wordboost sessions.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordboost/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/ilyakaznacheev/cleanenv"
)

const appName = "wordboost"

// Config holds the entire config structure
type Config struct {
	Engine      EngineConfig        `toml:"engine"`
	Paths       PathsConfig         `toml:"paths"`
	Server      ServerConfig        `toml:"server"`
	Keybindings map[string][]string `toml:"keybindings"`
}

// EngineConfig holds the per-session engine options.
type EngineConfig struct {
	PageSize               int      `toml:"page_size" env:"WORDBOOST_PAGE_SIZE"`
	CandidatePages         int      `toml:"candidate_pages" env:"WORDBOOST_CANDIDATE_PAGES"`
	MinCharComplete        int      `toml:"min_char_complete" env:"WORDBOOST_MIN_CHAR_COMPLETE"`
	AddSpaceOnCommit       bool     `toml:"add_space_on_commit" env:"WORDBOOST_ADD_SPACE_ON_COMMIT"`
	EmojiPrediction        bool     `toml:"emoji_prediction" env:"WORDBOOST_EMOJI_PREDICTION"`
	OffTheRecord           bool     `toml:"off_the_record" env:"WORDBOOST_OFF_THE_RECORD"`
	TabEnable              bool     `toml:"tab_enable" env:"WORDBOOST_TAB_ENABLE"`
	AutoCommitCharacters   string   `toml:"auto_commit_characters" env:"WORDBOOST_AUTO_COMMIT_CHARACTERS"`
	LookupTableOrientation string   `toml:"lookup_table_orientation" env:"WORDBOOST_LOOKUP_TABLE_ORIENTATION"`
	ReopenCommittedWords   bool     `toml:"reopen_committed_words" env:"WORDBOOST_REOPEN_COMMITTED_WORDS"`
	CurrentIMEs            []string `toml:"current_imes" env:"WORDBOOST_IMES" env-separator:","`
	DictionaryNames        []string `toml:"dictionary_names" env:"WORDBOOST_DICTIONARIES" env-separator:","`
}

// PathsConfig holds file locations. Empty values resolve to defaults under
// the user data directory.
type PathsConfig struct {
	DataDir       string `toml:"data_dir" env:"WORDBOOST_DATA_DIR"`
	DictionaryDir string `toml:"dictionary_dir" env:"WORDBOOST_DICTIONARY_DIR"`
	UserDB        string `toml:"user_db" env:"WORDBOOST_USER_DB"`
}

// ServerConfig has options for the msgpack driver.
type ServerConfig struct {
	MaxPending int `toml:"max_pending" env:"WORDBOOST_MAX_PENDING"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", appName)
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		primaryPath = filepath.Join(configHome, appName)
	}
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordboost/config.toml
// 3. Builtin defaults
// WORDBOOST_* environment variables override whichever was used.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	config, path := loadWithPriority(customConfigPath)
	if err := ApplyEnv(config); err != nil {
		log.Warnf("Ignoring environment overrides: %v", err)
	}
	config.Repair()
	return config, path, nil
}

func loadWithPriority(customConfigPath string) (*Config, string) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), ""
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath
}

// ApplyEnv overrides fields from WORDBOOST_* environment variables. Unset
// variables leave the loaded values alone.
func ApplyEnv(config *Config) error {
	if err := cleanenv.ReadEnv(config); err != nil {
		return fmt.Errorf("config: read env: %w", err)
	}
	return nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			PageSize:               6,
			CandidatePages:         3,
			MinCharComplete:        1,
			AddSpaceOnCommit:       true,
			EmojiPrediction:        false,
			OffTheRecord:           false,
			TabEnable:              false,
			AutoCommitCharacters:   "",
			LookupTableOrientation: OrientationVertical,
			ReopenCommittedWords:   true,
			CurrentIMEs:            []string{"NoIME"},
			DictionaryNames:        []string{"en_US"},
		},
		Paths: PathsConfig{
			DataDir:       "",
			DictionaryDir: "/usr/share/myspell",
			UserDB:        "",
		},
		Server: ServerConfig{
			MaxPending: 64,
		},
		Keybindings: map[string][]string{},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if engineSection, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(engineSection, &config.Engine)
	}
	if pathsSection, ok := utils.ExtractSection(tempConfig, "paths"); ok {
		extractPathsConfig(pathsSection, &config.Paths)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractInt64(serverSection, "max_pending"); ok {
			config.Server.MaxPending = val
		}
	}
	if bindings, ok := utils.ExtractSection(tempConfig, "keybindings"); ok {
		for action := range bindings {
			if chords, ok := utils.ExtractStringSlice(bindings, action); ok {
				config.Keybindings[action] = chords
			} else {
				log.Warnf("Ignoring keybinding %s: expected a list of strings", action)
			}
		}
	}
	return config, nil
}

// extractEngineConfig extracts engine configuration from a map
func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	ints := map[string]*int{
		"page_size":         &engine.PageSize,
		"candidate_pages":   &engine.CandidatePages,
		"min_char_complete": &engine.MinCharComplete,
	}
	for key, dst := range ints {
		if val, ok := utils.ExtractInt64(data, key); ok {
			*dst = val
		}
	}
	bools := map[string]*bool{
		"add_space_on_commit":    &engine.AddSpaceOnCommit,
		"emoji_prediction":       &engine.EmojiPrediction,
		"off_the_record":         &engine.OffTheRecord,
		"tab_enable":             &engine.TabEnable,
		"reopen_committed_words": &engine.ReopenCommittedWords,
	}
	for key, dst := range bools {
		if val, ok := utils.ExtractBool(data, key); ok {
			*dst = val
		}
	}
	if val, ok := utils.ExtractString(data, "auto_commit_characters"); ok {
		engine.AutoCommitCharacters = val
	}
	if val, ok := utils.ExtractString(data, "lookup_table_orientation"); ok {
		engine.LookupTableOrientation = val
	}
	if val, ok := utils.ExtractStringSlice(data, "current_imes"); ok {
		engine.CurrentIMEs = val
	}
	if val, ok := utils.ExtractStringSlice(data, "dictionary_names"); ok {
		engine.DictionaryNames = val
	}
}

// extractPathsConfig extracts path configuration from a map
func extractPathsConfig(data map[string]any, paths *PathsConfig) {
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		paths.DataDir = val
	}
	if val, ok := utils.ExtractString(data, "dictionary_dir"); ok {
		paths.DictionaryDir = val
	}
	if val, ok := utils.ExtractString(data, "user_db"); ok {
		paths.UserDB = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// DataDir resolves the data directory.
func (c *Config) DataDir() string {
	if c.Paths.DataDir != "" {
		return utils.ExpandHome(c.Paths.DataDir)
	}
	return utils.UserDataDir(appName)
}

// DictionaryDirs lists where dictionaries are searched, the per-user
// directory first.
func (c *Config) DictionaryDirs() []string {
	dirs := []string{filepath.Join(c.DataDir(), "dictionaries")}
	if c.Paths.DictionaryDir != "" {
		dirs = append(dirs, utils.ExpandHome(c.Paths.DictionaryDir))
	}
	return dirs
}

// UserDBPath resolves the phrase database. The special value ":memory:"
// is returned unchanged.
func (c *Config) UserDBPath() string {
	switch c.Paths.UserDB {
	case "":
		return filepath.Join(c.DataDir(), "user.db")
	case ":memory:":
		return c.Paths.UserDB
	}
	return utils.ExpandHome(c.Paths.UserDB)
}

// Update changes engine values and saves to file.
func (c *Config) Update(configPath string, pageSize *int, imes, dictionaries []string) error {
	if pageSize != nil {
		c.Engine.PageSize = *pageSize
	}
	if imes != nil {
		c.Engine.CurrentIMEs = imes
	}
	if dictionaries != nil {
		c.Engine.DictionaryNames = dictionaries
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return SaveConfig(c, configPath)
}
