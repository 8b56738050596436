// Package profile discovers the named credential profiles available in the
// shared AWS config and credentials files.
package profile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const (
	configFileEnv      = "AWS_CONFIG_FILE"
	credentialsFileEnv = "AWS_SHARED_CREDENTIALS_FILE"

	defaultProfile = "default"
	profilePrefix  = "profile "
)

// Source lists the profiles found in a config file and a credentials file
type Source struct {
	ConfigFile      string
	CredentialsFile string
}

// DefaultSource resolves the file locations the same way the SDK does. When
// the home directory cannot be found only the environment overrides are used
// and the error is returned alongside.
func DefaultSource() (Source, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Source{
			ConfigFile:      os.Getenv(configFileEnv),
			CredentialsFile: os.Getenv(credentialsFileEnv),
		}, errors.Wrap(err, "profile: cannot locate shared config files")
	}
	return Source{
		ConfigFile:      envOr(configFileEnv, filepath.Join(home, ".aws", "config")),
		CredentialsFile: envOr(credentialsFileEnv, filepath.Join(home, ".aws", "credentials")),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// List returns the profile names in file order: config file first, then any
// credentials file profiles not already seen. Missing files contribute nothing.
func (s Source) List() ([]string, error) {
	var result error
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	sections, err := sectionNames(s.ConfigFile)
	if err != nil {
		result = multierror.Append(result, err)
	}
	for _, section := range sections {
		add(configProfileName(section))
	}

	sections, err = sectionNames(s.CredentialsFile)
	if err != nil {
		result = multierror.Append(result, err)
	}
	for _, section := range sections {
		add(strings.TrimSpace(section))
	}

	return names, result
}

// Contains reports whether name is one of the discovered profiles
func Contains(profiles []string, name string) bool {
	for _, p := range profiles {
		if p == name {
			return true
		}
	}
	return false
}

// configProfileName maps a config file section to its profile name, or "" when
// the section is not a profile (sso-session, services, ...)
func configProfileName(section string) string {
	section = strings.TrimSpace(section)
	if section == defaultProfile {
		return defaultProfile
	}
	if strings.HasPrefix(section, profilePrefix) {
		return strings.TrimSpace(strings.TrimPrefix(section, profilePrefix))
	}
	return ""
}

func sectionNames(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	file, err := ini.LoadSources(ini.LoadOptions{}, path)
	if err != nil {
		return nil, errors.Wrapf(err, "profile: failed to parse %s", path)
	}

	var names []string
	for _, section := range file.Sections() {
		// the implicit default section is always present; it only names a
		// profile when the file declares keys under [DEFAULT]
		if section.Name() == ini.DefaultSection && len(section.Keys()) == 0 {
			continue
		}
		names = append(names, section.Name())
	}
	return names, nil
}
