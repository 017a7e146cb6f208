package images

import (
	"regexp"
	"strings"
)

// The tag is whatever follows the last colon, provided no slash follows it,
// so registry ports such as `host:5000/app` stay part of the repository.
var referencePattern = regexp.MustCompile(`^(?P<Repository>.+?)(?::(?P<Tag>[^:/]*))?$`)

var selectedListCleaner = strings.NewReplacer("\r", "", "\n", "", " ", "", `\n`, "")

// ParseReference splits a single `repository[:tag]` entry. An entry without a
// tag, or with an empty one, gets DefaultTag. It returns nil for an empty entry.
func ParseReference(reference string) *Image {
	matches := referencePattern.FindStringSubmatch(reference)

	if matches == nil {
		return nil
	}

	image := Image{
		RepositoryName: matches[referencePattern.SubexpIndex("Repository")],
		ImageTag:       matches[referencePattern.SubexpIndex("Tag")],
	}
	if image.ImageTag == "" {
		image.ImageTag = DefaultTag
	}

	return &image
}

// ParseSelectedList turns a comma separated list such as
// `ubuntu:latest,alpine:3.18,mydocker` into images.
//
// Whitespace, line breaks and literal `\n` sequences are dropped before
// splitting, so the list may be wrapped freely when stored. Empty entries are
// skipped. The result is never nil.
func ParseSelectedList(raw string) []Image {
	entries := strings.Split(selectedListCleaner.Replace(raw), ",")

	result := make([]Image, 0, len(entries))
	for _, entry := range entries {
		image := ParseReference(entry)
		if image == nil {
			continue
		}
		result = append(result, *image)
	}
	return result
}
