package relay

import "errors"

// ErrChannelFull is returned when a third distinct endpoint tries to join
// a channel that already pairs two endpoints (spec's session model is
// strictly two-party; a relay channel mirrors that).
var ErrChannelFull = errors.New("relay: channel already has two endpoints")
