package registry

import "runtime"

// currentGoroutineID returns the running goroutine's id, parsed from the
// first line of its stack trace ("goroutine 123 [running]:").
//
// This only runs on the mutation and scan entry points, never per visited
// root, so the runtime.Stack cost is acceptable and no unsafe g-struct
// peeking is warranted.
func currentGoroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseGID(buf[:n])
}

// parseGID extracts the numeric id from stack trace bytes, or 0 if the
// format is unrecognized.
func parseGID(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}
	var gid int64
	for i := len(prefix); i < len(buf); i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		gid = gid*10 + int64(c-'0')
	}
	return gid
}
