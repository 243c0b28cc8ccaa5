package desk

import "path/filepath"

// DefaultOrganizedDirName is the folder created on the desktop to hold categorized files.
const DefaultOrganizedDirName = "DesktopSort"

// Locations names the directories the service scans and writes to.
type Locations struct {
	// Desktop is the user's desktop directory.
	Desktop string
	// SharedDesktop is the all-users desktop. Empty disables it.
	SharedDesktop string
	// OrganizedDirName is the name of the organized folder under Desktop.
	OrganizedDirName string
}

// Service is the orchestration layer over the desktop: scanning, organizing,
// restoring and undoing.
type Service struct {
	fsmgr    FilesystemManager
	history  *History
	settings *SettingsStore
	loc      Locations
	logger   Logger
	clock    Clock
	idgen    IDGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(fsmgr FilesystemManager, history *History, settings *SettingsStore, loc Locations, logger Logger, clock Clock, idgen IDGenerator) *Service {
	if loc.OrganizedDirName == "" {
		loc.OrganizedDirName = DefaultOrganizedDirName
	}
	return &Service{
		fsmgr:    fsmgr,
		history:  history,
		settings: settings,
		loc:      loc,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// History returns the operation history the service records into.
func (s *Service) History() *History { return s.history }

// Settings returns the settings store the service reads defaults from.
func (s *Service) Settings() *SettingsStore { return s.settings }

// OrganizedRoot resolves the organized folder: an explicit override first,
// then the configured destination setting, then <desktop>/<organized dir name>.
func (s *Service) OrganizedRoot(override string) string {
	if override != "" {
		return filepath.Clean(override)
	}
	if st, err := s.settings.Get(); err == nil && st.DestinationPath != "" {
		return filepath.Clean(st.DestinationPath)
	} else if err != nil {
		s.logger.Warn("reading settings", "error", err)
	}
	return filepath.Join(s.loc.Desktop, s.loc.OrganizedDirName)
}
