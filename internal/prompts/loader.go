// Package prompts provides the LLM prompt templates used by job posting
// parsing (parsing.json) and match explanations (matching.json). Each file is
// a JSON object keyed by prompt name and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// placeholder matches {{.Name}} template fields
var placeholder = regexp.MustCompile(`\{\{\.([A-Za-z]+)\}\}`)

var (
	loaded   = make(map[string]map[string]string)
	loadedMu sync.RWMutex
)

// Get returns the unfilled template named key in file.
func Get(file, key string) (string, error) {
	set, err := load(file)
	if err != nil {
		return "", err
	}
	prompt, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt %q not found in %s", key, file)
	}
	return prompt, nil
}

// Keys lists the prompt names in file in sorted order.
func Keys(file string) ([]string, error) {
	set, err := load(file)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Placeholders returns the distinct field names of a template in order of
// first use.
func Placeholders(template string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Render fills the template named key in file from data. A field without a
// value is an error so that a renamed field never reaches the model as
// literal template text. Extra data is ignored.
func Render(file, key string, data map[string]string) (string, error) {
	template, err := Get(file, key)
	if err != nil {
		return "", err
	}

	var missing []string
	out := placeholder.ReplaceAllStringFunc(template, func(field string) string {
		name := placeholder.FindStringSubmatch(field)[1]
		v, ok := data[name]
		if !ok {
			missing = append(missing, name)
			return field
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: no value for %s", file, key, strings.Join(missing, ", "))
	}
	return out, nil
}

func load(file string) (map[string]string, error) {
	loadedMu.RLock()
	set, ok := loaded[file]
	loadedMu.RUnlock()
	if ok {
		return set, nil
	}

	data, err := promptFiles.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", file, err)
	}
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", file, err)
	}

	loadedMu.Lock()
	loaded[file] = set
	loadedMu.Unlock()
	return set, nil
}
