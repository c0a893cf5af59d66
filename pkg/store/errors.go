package store

import "errors"

// ErrUnknownAction is returned by Dispatch when the action identifier is
// not present in the action table. The dispatch is a no-op: state is
// unchanged and no listener is notified.
//
// This is non-fatal by design. Hosts may dispatch speculatively and treat
// the error as a diagnostic.
var ErrUnknownAction = errors.New("statekit: unknown action")

// ErrPayloadType is returned by Dispatch when a typed action (see Action)
// receives a payload of the wrong dynamic type. The dispatch is a no-op.
var ErrPayloadType = errors.New("statekit: wrong payload type")
