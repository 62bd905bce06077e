// Package share encodes a ranked album list into a compact, URL-safe text
// token that can be pasted between installations, and decodes it back.
package share

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/shared"
)

// payload is the JSON document inside the token. The envelope leaves room
// for future fields without breaking old decoders.
type payload struct {
	Albums []models.Album `json:"albums"`
}

// Encode serializes the list into a URL-safe base64 token.
func Encode(albums []models.Album) (string, error) {
	if albums == nil {
		albums = []models.Album{}
	}

	data, err := json.Marshal(payload{Albums: albums})
	if err != nil {
		return "", fmt.Errorf("failed to serialize share payload: %w", err)
	}

	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode parses a share token back into an album list. Any malformed input
// (bad base64, bad JSON, missing envelope) returns [shared.ErrDecodeFailed];
// a structurally valid token holding zero albums decodes to an empty slice,
// which callers treat as they see fit.
func Decode(token string) ([]models.Album, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", shared.ErrDecodeFailed)
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecodeFailed, err)
	}

	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecodeFailed, err)
	}
	if decoded.Albums == nil {
		return nil, fmt.Errorf("%w: missing album list", shared.ErrDecodeFailed)
	}

	for _, album := range decoded.Albums {
		if album.ID == "" {
			return nil, fmt.Errorf("%w: album entry without id", shared.ErrDecodeFailed)
		}
	}

	return decoded.Albums, nil
}
