package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultAppName names the config directory and autostart entries.
const DefaultAppName = "WorkBuddy"

// AutostartEntry describes the command launched at login.
type AutostartEntry struct {
	Name     string
	ExecPath string
	Args     []string
	Comment  string
}

func (entry AutostartEntry) validate(operation string) error {
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%s: app name is empty", operation)
	}
	if entry.ExecPath == "" {
		return fmt.Errorf("%s: exec path is empty", operation)
	}
	return nil
}

// Service defines OS-specific helpers needed by the application.
type Service interface {
	ConfigDir() (string, error)
	DataDir(appName string) (string, error)
	EnableAutostart(entry AutostartEntry) error
	DisableAutostart(appName string) error
	AutostartEnabled(appName string) (bool, error)
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// ConfigDir returns the OS-standard configuration directory.
func (service *platformService) ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// DataDir returns the per-application directory holding settings and the usage database.
func (service *platformService) DataDir(appName string) (string, error) {
	if strings.TrimSpace(appName) == "" {
		appName = DefaultAppName
	}
	configDir, err := service.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

func slugName(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = DefaultAppName
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
