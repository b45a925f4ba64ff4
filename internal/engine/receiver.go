package engine

// Receiver is the upward-facing capability set the application must
// implement to use an Engine.
type Receiver interface {
	// OnData is invoked once per successfully assembled, checksum-valid
	// message, with the deserialized value.
	OnData(v any)
	// OnTimeout is invoked with false on every tick that delivers a valid
	// frame, and with true on every timeout expiry.
	OnTimeout(timedOut bool, stream *Engine)
	// RegisterStream is invoked once at engine construction so the
	// application can store the handle for later Write/Tick calls.
	RegisterStream(stream *Engine)
}

// Serializer is the capability set the engine consumes to turn application
// values into bytes and back. It is treated as opaque: any representation
// is acceptable so long as Deserialize(Serialize(v)) round-trips v under
// the implementation's own notion of equality.
type Serializer interface {
	Serialize(v any) ([]byte, error)
	Deserialize(data []byte) (any, error)
}
