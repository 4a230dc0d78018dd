package tick

import "errors"

// ErrStopped is returned by Submit once the driver has been stopped
var ErrStopped = errors.New("tick driver stopped")
