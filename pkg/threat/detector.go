package threat

import "regexp"

// Signature is a named attack pattern.
type Signature struct {
	Name    string
	Pattern *regexp.Regexp
}

// defaultSignatures is evaluated in order; first match wins. Keep patterns
// literal and unanchored where possible so RE2 scans stay cheap.
var defaultSignatures = []Signature{
	{Name: "directory_traversal", Pattern: regexp.MustCompile(`\.\./`)},
	{Name: "script_injection", Pattern: regexp.MustCompile(`(?i)<script`)},
	{Name: "sql_injection", Pattern: regexp.MustCompile(`(?i)union.*select`)},
	{Name: "code_evaluation", Pattern: regexp.MustCompile(`(?i)eval\(`)},
	{Name: "php_injection", Pattern: regexp.MustCompile(`(?i)base64_decode`)},
	{Name: "command_injection", Pattern: regexp.MustCompile(`(?i)cmd=`)},
}

// Detector scans request attributes against a signature list.
type Detector struct {
	signatures []Signature
}

// NewDetector returns a Detector with the default signature set.
func NewDetector() *Detector {
	return &Detector{signatures: defaultSignatures}
}

// NewDetectorWithSignatures returns a Detector with a custom signature list,
// evaluated in the given order.
func NewDetectorWithSignatures(signatures []Signature) *Detector {
	return &Detector{signatures: signatures}
}

// Scan checks path and user agent against every signature in order and
// returns the name of the first match. A request is suspicious if either
// attribute matches.
func (d *Detector) Scan(path, userAgent string) (signature string, suspicious bool) {
	for _, sig := range d.signatures {
		if sig.Pattern.MatchString(path) || sig.Pattern.MatchString(userAgent) {
			return sig.Name, true
		}
	}
	return "", false
}
