package calrun

import "strings"

// ExtractConcentration reads the concentration encoded in a source name. The
// first two underscore-delimited segments of the base name are the integer and
// fractional parts, so "4_15_trial1.txt" is "4.15". The result is not checked
// for being numeric; consumers parse it when they need the number.
func ExtractConcentration(identifier string) (string, error) {
	name := baseName(identifier)

	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return "", &IdentifierError{Identifier: identifier, Segments: len(parts)}
	}

	return parts[0] + "." + parts[1], nil
}

// baseName handles local paths from either OS as well as gs:// and s3:// keys.
func baseName(identifier string) string {
	if i := strings.LastIndexAny(identifier, `/\`); i >= 0 {
		return identifier[i+1:]
	}
	return identifier
}
