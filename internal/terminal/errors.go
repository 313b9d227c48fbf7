package terminal

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteUnavailable: transport error atau 5xx dari API.
	ErrRemoteUnavailable = errors.New("terminal api unavailable")
	// ErrRemoteClient: 4xx, request kita yang salah (token invalid, dll).
	ErrRemoteClient = errors.New("terminal api rejected request")
	// ErrDecode: body bukan JSON yang diharapkan.
	ErrDecode = errors.New("terminal api response decode failed")
)

func statusError(status int, path string) error {
	kind := ErrRemoteUnavailable
	if status >= 400 && status < 500 {
		kind = ErrRemoteClient
	}
	return fmt.Errorf("%w: GET %s returned %d", kind, path, status)
}
