package model

// SettingsVersion is the current layout version of the settings document.
const SettingsVersion = 1

// Settings holds user preferences persisted in the "settings" document.
// Stored values are decoded on top of DefaultSettings, so fields missing from
// an older document keep their defaults and unknown fields are ignored.
type Settings struct {
	Version int `json:"version" yaml:"version"`

	// DestinationPath overrides the organized root. Empty means <desktop>/<organized_dir_name>.
	DestinationPath string `json:"destinationPath" yaml:"destinationPath"`
	DefaultMode     string `json:"defaultMode" yaml:"defaultMode"`

	ConfirmBeforeOrganize bool `json:"confirmBeforeOrganize" yaml:"confirmBeforeOrganize"`
	ShowPreview           bool `json:"showPreview" yaml:"showPreview"`
	// KeepOriginals turns move requests into copies.
	KeepOriginals bool `json:"keepOriginals" yaml:"keepOriginals"`

	WatchEnabled bool `json:"watchEnabled" yaml:"watchEnabled"`

	Theme     string `json:"theme" yaml:"theme"`
	Language  string `json:"language" yaml:"language"`
	ViewMode  string `json:"viewMode" yaml:"viewMode"`
	SortBy    string `json:"sortBy" yaml:"sortBy"`
	SortOrder string `json:"sortOrder" yaml:"sortOrder"`

	IsFirstRun bool `json:"isFirstRun" yaml:"isFirstRun"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Version:               SettingsVersion,
		DefaultMode:           ModeMove,
		ConfirmBeforeOrganize: true,
		ShowPreview:           true,
		Theme:                 "dark",
		Language:              "auto",
		ViewMode:              "grid",
		SortBy:                "name",
		SortOrder:             "asc",
		IsFirstRun:            true,
	}
}
