// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Shared flag/positional parsing for command handlers.
package cli

import (
	"strconv"
	"strings"
)

// ArgParser provides unified argument parsing for command handlers.
// It handles the flag formats used across subcommands:
//
//	--flag value     Long flag with space-separated value
//	--flag=value     Long flag with equals sign
//	-f value         Short flag with space-separated value
//	--flag           Boolean flag (no value)
//
// The first positional argument is the subcommand.
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser creates a new argument parser from raw arguments.
func NewArgParser(raw []string) *ArgParser {
	parser := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
		raw:       raw,
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]

		if strings.HasPrefix(arg, "-") {
			if strings.Contains(arg, "=") {
				parts := strings.SplitN(arg, "=", 2)
				name := strings.TrimLeft(parts[0], "-")
				value := parts[1]
				if value == "true" || value == "false" {
					parser.boolFlags[name] = value == "true"
				} else {
					parser.flags[name] = value
				}
				i++
				continue
			}

			name := strings.TrimLeft(arg, "-")
			if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
				parser.flags[name] = raw[i+1]
				i += 2
			} else {
				parser.boolFlags[name] = true
				i++
			}
		} else {
			parser.positional = append(parser.positional, arg)
			i++
		}
	}

	if len(parser.positional) > 0 {
		parser.subcommand = parser.positional[0]
	}

	return parser
}

// Subcommand returns the first positional argument, or "" if none.
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns the value of a string flag, or "" if not set.
func (p *ArgParser) Flag(name string) string {
	name = strings.TrimLeft(name, "-")
	return p.flags[name]
}

// FlagOrDefault returns the flag value or a default if not set.
func (p *ArgParser) FlagOrDefault(name, defaultValue string) string {
	if val := p.Flag(name); val != "" {
		return val
	}
	return defaultValue
}

// FlagIntOrDefault returns the flag value as an integer, or the
// default if the flag is missing or not a valid integer.
func (p *ArgParser) FlagIntOrDefault(name string, defaultValue int) int {
	val := p.Flag(name)
	if val == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// BoolFlag returns the value of a boolean flag, false if not set.
func (p *ArgParser) BoolFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	return p.boolFlags[name]
}

// HasFlag returns true if the flag exists in either form.
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, hasString := p.flags[name]
	_, hasBool := p.boolFlags[name]
	return hasString || hasBool
}

// Positional returns the positional argument at index, "" if out of range.
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns all positional arguments from index onward.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return []string{}
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// Raw returns the original raw arguments.
func (p *ArgParser) Raw() []string {
	return p.raw
}
