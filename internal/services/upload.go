package services

import (
	"errors"
	"fmt"
	"strings"
)

const (
	RouteImageUploader    = "imageUploader"
	RouteDocumentUploader = "documentUploader"
)

const mb = 1 << 20

var (
	ErrUnknownUploadRoute = errors.New("unknown upload route")
	ErrFileTypeNotAllowed = errors.New("file type not allowed on this route")
	ErrFileTooLarge       = errors.New("file exceeds the size limit")
	ErrInvalidUpload      = errors.New("upload requires a name and url")
)

type uploadRule struct {
	prefix  string
	maxSize int64
}

// uploadRoutes lists the accepted content types per route with their limits.
var uploadRoutes = map[string][]uploadRule{
	RouteImageUploader: {
		{prefix: "image/", maxSize: 4 * mb},
	},
	RouteDocumentUploader: {
		{prefix: "application/pdf", maxSize: 16 * mb},
		{prefix: "text/", maxSize: 8 * mb},
	},
}

// CheckUpload validates a stored file descriptor against its route.
func CheckUpload(route, contentType string, size int64) error {
	rules, ok := uploadRoutes[route]
	if !ok {
		return ErrUnknownUploadRoute
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, r := range rules {
		if !strings.HasPrefix(contentType, r.prefix) {
			continue
		}
		if size < 0 || size > r.maxSize {
			return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, r.maxSize)
		}
		return nil
	}
	return ErrFileTypeNotAllowed
}
