// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package session

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// decodePlain base64-decodes an SASL PLAIN payload and splits it into its
// three fields. Per spec.md §8, the decoded payload must contain exactly
// two NUL bytes; any other count, like invalid base64, is reported as
// ErrAuthRejected. It is a framing check, not a credential check, since
// this proxy never rejects credentials.
func decodePlain(payload string) (authzid, authcid, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: invalid base64: %v", ErrAuthRejected, err)
	}
	parts := strings.Split(string(raw), "\x00")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: expected 2 NUL separators, got %d", ErrAuthRejected, len(parts)-1)
	}
	return parts[0], parts[1], parts[2], nil
}
