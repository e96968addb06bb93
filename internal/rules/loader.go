package rules

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets/*.yaml
var embeddedPresets embed.FS

// RuleFile is the on-disk form of a rule set.
type RuleFile struct {
	Extends []string               `yaml:"extends" json:"extends"`
	Rules   map[string]interface{} `yaml:"rules" json:"rules"`
}

// Loader resolves presets and rule files into rule sets.
type Loader struct {
	baseDir string
	cache   map[string]RuleSet
}

// NewLoader creates a loader resolving relative paths against baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		baseDir: baseDir,
		cache:   make(map[string]RuleSet),
	}
}

// Presets returns the names of the embedded presets.
func Presets() []string {
	entries, err := embeddedPresets.ReadDir("presets")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// Resolve loads every source in order and merges them, later sources taking
// precedence. A source is an embedded preset name or a YAML file path.
func (l *Loader) Resolve(sources []string) (RuleSet, error) {
	return l.resolve(sources, nil)
}

func (l *Loader) resolve(sources []string, chain []string) (RuleSet, error) {
	sets := make([]RuleSet, 0, len(sources))
	for _, source := range sources {
		set, err := l.load(source, chain)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return MergeAll(sets...)
}

func (l *Loader) load(source string, chain []string) (RuleSet, error) {
	if source == "" {
		return nil, fmt.Errorf("empty source in extends")
	}

	key := l.key(source)
	for _, seen := range chain {
		if seen == key {
			return nil, fmt.Errorf("extends cycle: %s -> %s", strings.Join(chain, " -> "), key)
		}
	}

	if cached, ok := l.cache[key]; ok {
		return cached, nil
	}

	data, err := l.read(source)
	if err != nil {
		return nil, err
	}

	file, err := ParseRuleFile(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	parent, err := l.resolve(file.Extends, append(chain, key))
	if err != nil {
		return nil, err
	}

	own, err := ParseRuleSet(file.Rules)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", source, err)
	}

	set, err := Merge(parent, own)
	if err != nil {
		return nil, err
	}

	l.cache[key] = set
	return set, nil
}

func (l *Loader) key(source string) string {
	if isPresetName(source) {
		return source
	}
	return l.path(source)
}

func (l *Loader) read(source string) ([]byte, error) {
	if isPresetName(source) {
		data, err := embeddedPresets.ReadFile("presets/" + source + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("unknown preset: %s", source)
		}
		return data, nil
	}

	data, err := os.ReadFile(l.path(source)) //nolint:gosec // Path comes from config
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	return data, nil
}

func (l *Loader) path(source string) string {
	if filepath.IsAbs(source) || l.baseDir == "" {
		return filepath.Clean(source)
	}
	return filepath.Join(l.baseDir, source)
}

// ParseRuleFile decodes a YAML rule file.
func ParseRuleFile(data []byte) (*RuleFile, error) {
	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// isPresetName treats bare names without path separators or extensions as
// embedded presets.
func isPresetName(source string) bool {
	return !strings.ContainsAny(source, `/\`) && filepath.Ext(source) == ""
}
