package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"lms/models/course"
)

var (
	ErrFileTooLarge    = errors.New("file is too large")
	ErrUnsupportedType = errors.New("file type is not accepted")
)

// Upload is an uploaded file that passed the category limits, rewound and
// ready to be forwarded. The caller closes File.
type Upload struct {
	File     multipart.File
	Filename string
	MimeType string
	Size     int64
}

// OpenUpload sniffs the content of file and checks it against limits. An empty
// accepted-types list accepts anything, entries may be exact types ("video/mp4"),
// wildcards ("video/*") or extensions (".pdf").
func OpenUpload(file *multipart.FileHeader, limits course.MediaLimits) (*Upload, error) {
	if limits.MaxSizeBytes > 0 && file.Size > limits.MaxSizeBytes {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge, HumanSize(file.Size), HumanSize(limits.MaxSizeBytes))
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		src.Close()
		return nil, err
	}
	if !Accepts(limits.AcceptedTypes, mtype, file.Filename) {
		src.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		src.Close()
		return nil, err
	}

	return &Upload{
		File:     src,
		Filename: filepath.Base(file.Filename),
		MimeType: baseType(mtype.String()),
		Size:     file.Size,
	}, nil
}

// Accepts reports whether a detected type (or one of its parents) matches accepted
func Accepts(accepted []string, mtype *mimetype.MIME, filename string) bool {
	if len(accepted) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range accepted {
		a = strings.ToLower(strings.TrimSpace(a))
		switch {
		case a == "":
			continue
		case a == "*/*" || a == "*":
			return true
		case strings.HasPrefix(a, "."):
			if a == ext || a == mtype.Extension() {
				return true
			}
			continue
		}
		for m := mtype; m != nil; m = m.Parent() {
			t := baseType(m.String())
			if strings.HasSuffix(a, "/*") && strings.HasPrefix(t, strings.TrimSuffix(a, "*")) {
				return true
			}
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

func baseType(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// HumanSize formats a byte count the way upload errors show it
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
