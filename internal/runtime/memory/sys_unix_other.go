//go:build unix && !linux

package memory

import "golang.org/x/sys/unix"

const reserveFlags = unix.MAP_PRIVATE | unix.MAP_ANON
