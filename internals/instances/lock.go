package instances

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/craftlaunch/craftlaunch/internals/merrors"
)

// ErrLocked is returned when another process is already preparing or
// running this instance
var ErrLocked = &merrors.CliError{
	Text: "This instance is already being prepared or running",
	Help: "Wait for the other launch to finish. If no other launch is running, delete the \"lock\" file in the instance directory",
}

// Lock takes the per-instance advisory lock. Two concurrent prepares
// would race on the same artifact set, so the second one fails with
// ErrLocked. The returned release function removes the lock.
func (i *Instance) Lock() (release func(), err error) {
	if err := os.MkdirAll(i.Dir(), 0755); err != nil {
		return nil, err
	}

	path := filepath.Join(i.Dir(), "lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrLocked
		}
		return nil, err
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return func() { os.Remove(path) }, nil
}
