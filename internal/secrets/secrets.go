// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves generator API keys from the environment or from a
// directory of plain-text files. Each file in the directory represents one
// secret: the filename is the key name and the file contents (trimmed) are
// the value.
//
// Supported key files: openai-api-key, dashscope-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SmileyChris/faker-news/pkg/types"
)

// DefaultDir is the secrets directory searched relative to the working
// directory.
const DefaultDir = ".secrets"

var envVars = map[types.GeneratorProvider]string{
	types.ProviderOpenAI:    "OPENAI_API_KEY",
	types.ProviderDashScope: "DASHSCOPE_API_KEY",
}

var fileNames = map[types.GeneratorProvider]string{
	types.ProviderOpenAI:    "openai-api-key",
	types.ProviderDashScope: "dashscope-api-key",
}

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory or missing files are not errors; Load
// returns an empty map. Unreadable files produce a warning on stderr but do
// not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Resolve returns the API key for provider and where it was found. The
// environment variable wins over the secrets directory; an empty value means
// no credential is configured.
func Resolve(provider types.GeneratorProvider, dir string) (value, source string) {
	env, ok := envVars[provider]
	if !ok {
		return "", ""
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v, "$" + env
	}

	loaded, err := Load(dir)
	if err != nil {
		return "", ""
	}
	name := fileNames[provider]
	if v, ok := loaded[name]; ok {
		return v, filepath.Join(dir, name)
	}
	return "", ""
}

// Save writes the API key for provider into dir, creating the directory if
// needed. The file is readable only by the owner.
func Save(provider types.GeneratorProvider, dir, key string) (string, error) {
	name, ok := fileNames[provider]
	if !ok {
		return "", fmt.Errorf("unknown provider %q", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("refusing to save an empty key")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating secrets directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(key+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing secret: %w", err)
	}
	return path, nil
}
