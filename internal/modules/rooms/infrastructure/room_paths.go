package infrastructure

import (
	"fmt"
	"net/url"
	"strings"

	"askRoomWeb/internal/modules/rooms/application/port"
)

type pathBuilder func(string) (string, error)

const (
	healthPath = "/api/"
	roomsPath  = "/api/rooms"
)

var (
	questionsPath = roomScopedPathBuilder("/api/rooms/%s/questions")
	audioPath     = roomScopedPathBuilder("/api/rooms/%s/audio")
)

func roomScopedPathBuilder(format string) pathBuilder {
	trimmed := strings.TrimSpace(format)
	return func(value string) (string, error) {
		identifier := strings.TrimSpace(value)
		if identifier == "" {
			return "", port.ErrNoRoomSelected
		}
		return fmt.Sprintf(trimmed, url.PathEscape(identifier)), nil
	}
}
