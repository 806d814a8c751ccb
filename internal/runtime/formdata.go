package runtime

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"slices"
)

// FormData is a body sent as is, with its own content type
type FormData struct {
	ContentType string
	Body        io.Reader
}

// FormFile is a file part of a multipart form
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// NewFormData encodes fields and files as multipart/form-data. Fields are
// written in key order.
func NewFormData(fields map[string]string, files ...FormFile) (*FormData, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if err := mw.WriteField(key, fields[key]); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to write form file %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	return &FormData{ContentType: mw.FormDataContentType(), Body: &buf}, nil
}
