package tailer

import (
	"github.com/nxadm/tail"
)

// TailFile opens a file for line-by-line reading. With follow set the
// tail keeps delivering lines as the file grows and survives rotation;
// without it the Lines channel closes at EOF. Either way lines arrive
// in file order, which the caller depends on.
func TailFile(path string, follow bool) (*tail.Tail, error) {
	return tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: true,
		Poll:      true, // Polling is often safer in Docker mounts
	})
}
