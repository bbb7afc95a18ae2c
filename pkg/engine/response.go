package engine

import (
	"regexp"
	"strings"
)

// requestTagPattern is the directive grammar the model uses to ask for a
// document: literal brackets, name is any run of non-']' characters.
var requestTagPattern = regexp.MustCompile(`\[REQUEST_DOCUMENT:([^\]]+)\]`)

// ParsedResponse is the structured form of a raw model response.
type ParsedResponse struct {
	Answer          string
	DocumentRequest string
}

// ParseResponse extracts the document-request directive, if present. The
// first well-formed tag wins; every tag is stripped from the displayed
// answer so the user never sees the protocol text.
func ParseResponse(raw string) ParsedResponse {
	result := ParsedResponse{Answer: raw}

	match := requestTagPattern.FindStringSubmatch(raw)
	if match == nil {
		return result
	}

	result.DocumentRequest = strings.TrimSpace(match[1])
	result.Answer = strings.TrimSpace(requestTagPattern.ReplaceAllString(raw, ""))
	return result
}
