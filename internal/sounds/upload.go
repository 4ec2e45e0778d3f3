package sounds

import (
	"fmt"

	"github.com/mocbot/sounddash/internal/api"
)

// RejectedFile is a file the upload surface refused before any request.
type RejectedFile struct {
	Name   string
	Reason string
}

// ValidateUpload applies the client-side upload limits: a per-file size
// ceiling and the collection capacity. Files over the size limit are
// rejected individually; once capacity is exhausted the remaining files are
// rejected in selection order. Accepted files pass through unchanged.
func ValidateUpload(files []api.UploadFile, maxFileSize int64, maxSounds, current int) (accepted []api.UploadFile, rejected []RejectedFile) {
	slots := maxSounds - current
	if slots < 0 {
		slots = 0
	}

	for _, f := range files {
		if int64(len(f.Data)) > maxFileSize {
			rejected = append(rejected, RejectedFile{
				Name:   f.Name,
				Reason: fmt.Sprintf("file is larger than %d MiB", maxFileSize/(1024*1024)),
			})
			continue
		}
		if len(accepted) >= slots {
			rejected = append(rejected, RejectedFile{
				Name:   f.Name,
				Reason: fmt.Sprintf("sound limit reached (%d)", maxSounds),
			})
			continue
		}
		accepted = append(accepted, f)
	}
	return accepted, rejected
}
