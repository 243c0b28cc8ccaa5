package app

import (
	"fmt"
	"sort"
	"strconv"

	"desksort/internal/model"
)

// settingFields maps JSON setting names to setters.
var settingFields = map[string]func(s *model.Settings, v string) error{
	"destinationPath":       func(s *model.Settings, v string) error { s.DestinationPath = v; return nil },
	"defaultMode":           func(s *model.Settings, v string) error { s.DefaultMode = v; return nil },
	"confirmBeforeOrganize": boolSetting(func(s *model.Settings) *bool { return &s.ConfirmBeforeOrganize }),
	"showPreview":           boolSetting(func(s *model.Settings) *bool { return &s.ShowPreview }),
	"keepOriginals":         boolSetting(func(s *model.Settings) *bool { return &s.KeepOriginals }),
	"watchEnabled":          boolSetting(func(s *model.Settings) *bool { return &s.WatchEnabled }),
	"theme":                 func(s *model.Settings, v string) error { s.Theme = v; return nil },
	"language":              func(s *model.Settings, v string) error { s.Language = v; return nil },
	"viewMode":              func(s *model.Settings, v string) error { s.ViewMode = v; return nil },
	"sortBy":                func(s *model.Settings, v string) error { s.SortBy = v; return nil },
	"sortOrder":             func(s *model.Settings, v string) error { s.SortOrder = v; return nil },
}

func boolSetting(field func(*model.Settings) *bool) func(*model.Settings, string) error {
	return func(s *model.Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		*field(s) = b
		return nil
	}
}

// SettingKeys lists the names accepted by UpdateSetting.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingFields))
	for k := range settingFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func applySetting(s *model.Settings, key, value string) error {
	set, ok := settingFields[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	if err := set(s, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}
