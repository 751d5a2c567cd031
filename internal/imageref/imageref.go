// Package imageref builds and reads the self-contained data URIs used to
// display and download generated images without another network fetch.
package imageref

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DownloadPrefix is the fixed prefix of exported file names.
const DownloadPrefix = "gemini-gen"

// Encode returns data:<mime>;base64,<payload>
func Encode(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode splits a reference produced by Encode back into MIME type and bytes.
func Decode(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI: missing payload separator")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI: only base64 payloads are supported")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return mimeType, data, nil
}

// DownloadName is the deterministic export file name for a record id.
func DownloadName(id string) string {
	return DownloadPrefix + "-" + id + ".png"
}
