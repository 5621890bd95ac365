package banklink

import (
	"encoding/base64"
	"fmt"
)

// EncryptID obscures an account id for sharing with other users. It is an
// encoding, not encryption: anyone holding the shareable id can recover the
// account id, which is only useful together with a session.
func EncryptID(id string) string {
	return base64.StdEncoding.EncodeToString([]byte(id))
}

func DecryptID(shareableID string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(shareableID)
	if err != nil || len(raw) == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidShareableID, shareableID)
	}
	return string(raw), nil
}
