package models

import "io"

// MediaFile is an attachment to be uploaded to blob storage before the
// message that references it is inserted.
type MediaFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
