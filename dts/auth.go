package dts

import (
	"encoding/base64"
	"strings"
)

// encodeToken produces the credential the DTS expects in its Authorization
// header: the unencoded KBase developer token, newline-terminated and
// base64-encoded. The KBase auth service decodes the header and validates
// the inner token.
func encodeToken(apiKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.TrimSpace(apiKey) + "\n"))
}
