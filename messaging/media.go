// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"fmt"
	"io"
	"net/url"

	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/transport"
)

// MediaUpload describes a file to upload.
type MediaUpload struct {
	ContentType string
	// Filename is advisory; servers echo it in download headers.
	Filename string
	Reader   io.Reader
	// Size in bytes, or -1 when unknown. Progress fractions need it.
	Size int64
}

// UploadMedia uploads content to the media repository. done receives
// InProgress reports as bytes are sent, then the content URI.
func (c *Client) UploadMedia(upload MediaUpload, done func(dispatch.Progress[ref.ContentURI])) *dispatch.Handle {
	if upload.Reader == nil {
		return dispatch.RejectProgress(done, fmt.Errorf("messaging: upload has no content"))
	}
	request := &transport.Request{
		Descriptor: "media.upload",
		Method:     "POST",
		Path:       mediaUpload,
		Upload: &transport.Upload{
			ContentType: upload.ContentType,
			Reader:      upload.Reader,
			Size:        upload.Size,
		},
	}
	if upload.Filename != "" {
		request.Query = url.Values{"filename": {upload.Filename}}
	}
	return dispatch.InvokeProgress(c.dispatcher, request, dispatch.Field[ref.ContentURI]("content_uri"), done)
}
