//go:build !linux

package netname

import "errors"

// EventFromLink is only available on Linux.
func EventFromLink(name string) (AttachEvent, error) {
	return AttachEvent{}, errors.New("netlink is not supported on this platform")
}
