// Package filter parses the engine's class-selection filter files:
// newline-delimited INCLUDE/EXCLUDE CLASS_NAME <regex> records, plus an
// additional YAML list form for filenames ending in .yaml/.yml.
package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule is one INCLUDE/EXCLUDE record.
type Rule struct {
	Include bool
	Pattern *regexp.Regexp
}

// Set holds the parsed rules and evaluates class names against them.
type Set struct {
	rules []Rule
}

// yamlDocument is the alternate YAML list form:
//
//	include:
//	  - "com\\.example\\..*"
//	exclude:
//	  - "com\\.example\\.Skip.*"
type yamlDocument struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Load reads and parses the filter file at path. Files ending in .yaml or
// .yml use the YAML list form; anything else uses the line-oriented
// INCLUDE/EXCLUDE grammar.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("filter: reading %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return parseYAML(data)
	}
	return Parse(strings.NewReader(string(data)))
}

func parseYAML(data []byte) (*Set, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("filter: parsing yaml: %w", err)
	}

	var rules []Rule
	for _, p := range doc.Include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("filter: include pattern %q: %w", p, err)
		}
		rules = append(rules, Rule{Include: true, Pattern: re})
	}
	for _, p := range doc.Exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("filter: exclude pattern %q: %w", p, err)
		}
		rules = append(rules, Rule{Include: false, Pattern: re})
	}
	return &Set{rules: rules}, nil
}

// Parse reads the line-oriented grammar from r. Blank lines and lines
// starting with '#' are comments.
func Parse(r io.Reader) (*Set, error) {
	scanner := bufio.NewScanner(r)
	var rules []Rule
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 || fields[1] != "CLASS_NAME" {
			return nil, fmt.Errorf("filter: line %d: expected \"INCLUDE|EXCLUDE CLASS_NAME <regex>\", got %q", lineNo, line)
		}

		var include bool
		switch fields[0] {
		case "INCLUDE":
			include = true
		case "EXCLUDE":
			include = false
		default:
			return nil, fmt.Errorf("filter: line %d: unknown directive %q", lineNo, fields[0])
		}

		re, err := regexp.Compile(fields[2])
		if err != nil {
			return nil, fmt.Errorf("filter: line %d: invalid regex %q: %w", lineNo, fields[2], err)
		}
		rules = append(rules, Rule{Include: include, Pattern: re})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("filter: scanning: %w", err)
	}
	return &Set{rules: rules}, nil
}

// Matches reports whether className is kept: it matches at least one
// include rule (or no include rules exist) and matches no exclude rule.
func (s *Set) Matches(className string) bool {
	if s == nil {
		return true
	}

	hasIncludes := false
	includeMatch := false
	for _, rule := range s.rules {
		if rule.Include {
			hasIncludes = true
			if rule.Pattern.MatchString(className) {
				includeMatch = true
			}
		} else if rule.Pattern.MatchString(className) {
			return false
		}
	}
	return !hasIncludes || includeMatch
}
