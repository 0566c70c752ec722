package parser

import (
	"strconv"
	"strings"
)

// OASVersion represents each canonical 3.x version of the OpenAPI
// Specification that may be found at:
// https://github.com/OAI/OpenAPI-Specification/releases
//
// castr builds IR from OAS 3.0.x and 3.1.x documents only. Swagger 2.0
// documents are rejected at parse time.
type OASVersion int

const (
	// Unknown represents an unknown or unsupported OAS version
	Unknown OASVersion = iota
	// OASVersion300 OpenAPI Specification Version 3.0.0
	OASVersion300
	// OASVersion301 OpenAPI Specification Version 3.0.1
	OASVersion301
	// OASVersion302 OpenAPI Specification Version 3.0.2
	OASVersion302
	// OASVersion303 OpenAPI Specification Version 3.0.3
	OASVersion303
	// OASVersion304 OpenAPI Specification Version 3.0.4
	OASVersion304
	// OASVersion310 OpenAPI Specification Version 3.1.0
	OASVersion310
	// OASVersion311 OpenAPI Specification Version 3.1.1
	OASVersion311
	// OASVersion312 OpenAPI Specification Version 3.1.2
	OASVersion312
)

var (
	versionToString = map[OASVersion]string{
		OASVersion300: "3.0.0",
		OASVersion301: "3.0.1",
		OASVersion302: "3.0.2",
		OASVersion303: "3.0.3",
		OASVersion304: "3.0.4",
		OASVersion310: "3.1.0",
		OASVersion311: "3.1.1",
		OASVersion312: "3.1.2",
	}

	stringToVersion = func() map[string]OASVersion {
		m := make(map[string]OASVersion, len(versionToString))
		for k, v := range versionToString {
			m[v] = k
		}
		return m
	}()

	// seriesMax maps "major.minor" to the highest known version in that
	// series, so future patch releases (e.g. "3.0.9") map to the closest
	// supported version instead of failing.
	seriesMax = map[string]OASVersion{
		"3.0": OASVersion304,
		"3.1": OASVersion312,
	}
)

func (v OASVersion) String() string {
	if s, ok := versionToString[v]; ok {
		return s
	}
	return "unknown"
}

// IsValid returns true if this is a supported version.
func (v OASVersion) IsValid() bool {
	_, ok := versionToString[v]
	return ok
}

// Is31 returns true for the 3.1.x series, where nullability is expressed
// through type arrays rather than the 3.0 nullable keyword.
func (v OASVersion) Is31() bool {
	switch v {
	case OASVersion310, OASVersion311, OASVersion312:
		return true
	default:
		return false
	}
}

// ParseVersion attempts to parse the string s into an OASVersion, returning
// false if s is not a supported 3.x version. Exact matches are preferred;
// a future patch in a known series (e.g. "3.0.9") maps to the latest known
// patch, and pre-release suffixes ("3.1.0-rc1") are stripped before matching.
func ParseVersion(s string) (OASVersion, bool) {
	if v, ok := stringToVersion[s]; ok {
		return v, true
	}

	base, _, _ := strings.Cut(s, "-")
	if v, ok := stringToVersion[base]; ok {
		return v, true
	}

	parts := strings.Split(base, ".")
	if len(parts) < 2 {
		return Unknown, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Unknown, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Unknown, false
	}
	if latest, ok := seriesMax[strconv.Itoa(major)+"."+strconv.Itoa(minor)]; ok {
		return latest, true
	}
	return Unknown, false
}
