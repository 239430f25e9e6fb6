package models

import (
	"encoding/json"
	"io"
)

// WinRecord is a win as returned by the backend. Its shape belongs to the
// backend, so it is kept as the raw JSON object.
type WinRecord = json.RawMessage

// WinForm is a multipart win submission, used when the win carries
// attachments such as an image.
type WinForm struct {
	Fields map[string]string
	Files  []FormFile
}

// FormFile is a single file part of a WinForm.
type FormFile struct {
	Field       string // form field name, e.g. "image"
	FileName    string
	ContentType string // optional; detected by the transport when empty
	Reader      io.Reader
}
