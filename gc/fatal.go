package gc

import (
	"fmt"
	"os"
)

// Messages printed on the unrecoverable error paths. A memory manager with a
// corrupted or exhausted heap cannot safely continue, so none of these are
// reported as errors to the caller.
const (
	msgMissingHeapWords = "The " + EnvHeapWords + " environment variable must be set to the desired size of the heap (in words)."
	msgBadHeapWords     = EnvHeapWords + " must contain a positive even number with no trailing spaces."
	msgHeapReservation  = "unsuccessful allocation of heap."
	msgOutOfMemory      = "out of memory"
)

// fatal prints msg and terminates the process. The message goes to standard
// out and the exit status is zero: the Mint tooling diffs program output, and
// an abnormal exit or a write to stderr would break that. Tests swap this
// variable to intercept the call.
var fatal = func(msg string) {
	fmt.Println(msg)
	os.Exit(0)
}
