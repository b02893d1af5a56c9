package validation

import (
	"fmt"

	"github.com/templui/jobtracker/internal/apperr"
)

// DefaultMaxUploadSize applies when no limit is configured.
const DefaultMaxUploadSize int64 = 10 << 20

var ErrEmptyUpload = apperr.BadRequest("file is empty")

// ValidateUploadSize rejects empty uploads and uploads larger than maxSize bytes.
func ValidateUploadSize(size, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}

	if size <= 0 {
		return ErrEmptyUpload
	}

	if size > maxSize {
		return apperr.BadRequest(fmt.Sprintf("file too large: maximum size is %s", humanSize(maxSize)))
	}

	return nil
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
