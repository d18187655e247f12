package aws

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vietdv277/bucketscope/pkg/provider"
)

// Profile is a named AWS CLI profile
type Profile struct {
	Name   string
	Region string // From the config file, if set
	Source string // "credentials" or "config"
}

var (
	credentialsSectionRe = regexp.MustCompile(`^\[([^\]]+)\]$`)
	configSectionRe      = regexp.MustCompile(`^\[(?:profile\s+)?([^\]]+)\]$`)
	regionRe             = regexp.MustCompile(`^region\s*=\s*(.+)$`)
)

// LookupProfile finds a profile in the shared AWS files under home
// (~/.aws/credentials and ~/.aws/config). Region is taken from the config
// file when the credentials file does not set one.
func LookupProfile(home, name string) (*Profile, error) {
	var found *Profile

	files := []struct {
		path   string
		source string
		re     *regexp.Regexp
	}{
		{filepath.Join(home, ".aws", "credentials"), "credentials", credentialsSectionRe},
		{filepath.Join(home, ".aws", "config"), "config", configSectionRe},
	}
	for _, f := range files {
		p, err := findProfile(f.path, f.source, name, f.re)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		switch {
		case p == nil:
		case found == nil:
			found = p
		case found.Region == "":
			found.Region = p.Region
		}
	}

	if found == nil {
		return nil, fmt.Errorf("aws profile %q: %w", name, provider.ErrNotFound)
	}
	return found, nil
}

// findProfile scans one INI file for the named section
func findProfile(path, source, name string, section *regexp.Regexp) (*Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var current *Profile
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if m := section.FindStringSubmatch(line); len(m) == 2 {
			if current != nil {
				break
			}
			if strings.TrimSpace(m[1]) == name {
				current = &Profile{Name: name, Source: source}
			}
			continue
		}

		if current != nil {
			if m := regionRe.FindStringSubmatch(line); len(m) == 2 {
				current.Region = strings.TrimSpace(m[1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return current, nil
}
