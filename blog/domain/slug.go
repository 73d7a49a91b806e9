package domain

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w ]+`)
	spaceRuns    = regexp.MustCompile(` +`)
)

// Slugify derives a post slug from its title: lowercase, drop everything that
// is neither a word character nor a space, then turn runs of spaces into a
// single hyphen. "Hello, World!" becomes "hello-world".
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugChars.ReplaceAllString(slug, "")
	return spaceRuns.ReplaceAllString(slug, "-")
}

// ParseTags splits a comma separated tag list, trimming each tag and
// dropping empty ones.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
