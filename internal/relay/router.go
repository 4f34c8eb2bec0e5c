package relay

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/cellwire/cellwire/internal/observability"
	"github.com/cellwire/cellwire/internal/protocol"
)

// Router dispatches inbound frames on their classified kind. It holds no
// state beyond the registry handle; forwarding is fire-and-forget.
type Router struct {
	registry *Registry
}

func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// Route handles one frame received on a registered connection. A frame that
// is not valid JSON is logged and dropped; the connection survives.
func (rt *Router) Route(from *Conn, data []byte) {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		log.Warn().
			Str("conn", from.ID()).
			Err(err).
			Msg("relay: dropping unparseable frame")
		return
	}
	observability.RecordFrame(env.Kind.String())

	switch env.Kind {
	case protocol.KindCommand:
		rt.forwardToHost(from, env)
	case protocol.KindResult, protocol.KindError:
		rt.fanOut(from, env)
	case protocol.KindUnknown:
		observability.RecordDroppedFrame()
		log.Warn().
			Str("conn", from.ID()).
			Str("type", env.Type).
			Msg("relay: unknown message type")
	}
}

// forwardToHost delivers a command frame verbatim to the host slot, or
// answers the sender alone with a synthesized no-host error.
func (rt *Router) forwardToHost(from *Conn, env protocol.Envelope) {
	host := rt.registry.Host()
	if host == nil {
		observability.RecordNoHostError()
		payload, err := json.Marshal(protocol.NewNoHostErrorFrame(env.RequestID))
		if err != nil {
			log.Error().Err(err).Msg("relay: encode no-host error")
			return
		}
		if err := from.WriteFrame(payload); err != nil {
			log.Warn().
				Str("conn", from.ID()).
				Err(err).
				Msg("relay: deliver no-host error")
		}
		return
	}
	if err := host.WriteFrame(env.Raw); err != nil {
		log.Warn().
			Str("conn", from.ID()).
			Str("host", host.ID()).
			Str("type", env.Type).
			Err(err).
			Msg("relay: forward to host failed")
	}
}

// fanOut delivers a result or error frame to every caller except the
// connection it arrived on.
func (rt *Router) fanOut(from *Conn, env protocol.Envelope) {
	for _, caller := range rt.registry.Callers() {
		if caller.ID() == from.ID() {
			continue
		}
		if err := caller.WriteFrame(env.Raw); err != nil {
			log.Warn().
				Str("conn", caller.ID()).
				Str("type", env.Type).
				Err(err).
				Msg("relay: fan-out write failed")
		}
	}
}
