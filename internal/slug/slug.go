// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a lowercase ASCII letter, digit, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// valid matches a well-formed slug.
	valid = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Generate creates a URL-friendly slug from the given string. Accented
// letters are folded to their ASCII base before anything else is stripped.
// Example: "Introdução ao Python 3!" → "introducao-ao-python-3"
func Generate(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	result := strings.ToLower(strings.TrimSpace(folded))
	result = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, result)
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Valid reports whether s is already a well-formed slug: lowercase ASCII
// letters and digits separated by single hyphens.
func Valid(s string) bool {
	return valid.MatchString(s)
}
