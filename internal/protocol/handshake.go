package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Connection roles. The handshake is the first frame on every connection;
// any role value other than RoleHost registers the connection as a caller.
const (
	RoleHost   = "host"
	RoleCaller = "caller"
)

// Handshake identifies a freshly connected peer.
type Handshake struct {
	Role string `json:"role"`
}

// IsHost reports whether the peer claims the host role.
func (h Handshake) IsHost() bool {
	return strings.TrimSpace(h.Role) == RoleHost
}

// EncodeHandshake builds the handshake frame for the given role.
func EncodeHandshake(role string) ([]byte, error) {
	return json.Marshal(Handshake{Role: role})
}

// DecodeHandshake parses the first frame of a connection. A frame that is
// not a JSON object is a protocol error; the connection must be dropped
// without registration.
func DecodeHandshake(data []byte) (Handshake, error) {
	var hs Handshake
	if err := json.Unmarshal(data, &hs); err != nil {
		return Handshake{}, fmt.Errorf("%w: %v", ErrMalformedHandshake, err)
	}
	return hs, nil
}
