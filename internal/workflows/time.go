package workflows

import "time"

// timeNow is a package-level variable for testability.
// Tests replace it to pin "today".
var timeNow = time.Now
