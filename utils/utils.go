package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ToDataURL encodes image bytes as a "data:<mime>;base64,..." string
func ToDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL decodes a base64 data URL into its mime type and raw bytes
func ParseDataURL(s string) (mimeType string, data []byte, err error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, errors.New("not a data URL")
	}
	sep := strings.Index(s, ",")
	if sep < 0 {
		return "", nil, errors.New("data URL without payload")
	}
	meta := s[len("data:"):sep]
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, errors.New("only base64 data URLs are supported")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	data, err = base64.StdEncoding.DecodeString(s[sep+1:])
	if err != nil {
		return "", nil, err
	}
	return mimeType, data, nil
}
