package channel

import "errors"

// ErrArgumentMissing reports a required input that was not supplied: an
// empty endpoint, a non-positive timeout, or only one half of a credential
// pair. It is returned before any network activity.
var ErrArgumentMissing = errors.New("channel: required argument missing")
