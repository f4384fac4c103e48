// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/cli"
	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/schema"
	"github.com/bureau-foundation/mxfacade/messaging"
)

type uploadParams struct {
	Connection connectionFlags
	cli.JSONOutput
	ContentType string `flag:"content-type" desc:"MIME type (default: guessed from the file extension)"`
	Send        string `flag:"send" desc:"after uploading, post the file to this room"`
	NoProgress  bool   `flag:"no-progress" desc:"do not draw a progress bar"`
}

func uploadCommand(streams Streams) *cli.Command {
	var params uploadParams
	return &cli.Command{
		Name:    "upload",
		Summary: "Upload a file to the media repository",
		Description: `Upload a file and print its mxc:// content URI. On a terminal a
progress bar is drawn on stderr. With --send, the file is also posted
to a room as an image, audio, video, or file message.`,
		Usage: "mxctl upload <file> [--content-type TYPE] [--send ROOM_ID] [--json]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("upload", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "mxctl upload <file>"); err != nil {
				return err
			}
			path := args[0]
			var roomID ref.RoomID
			if params.Send != "" {
				var err error
				if roomID, err = parseRoomArg(params.Send); err != nil {
					return err
				}
			}

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			info, err := file.Stat()
			if err != nil {
				return err
			}
			contentType := params.ContentType
			if contentType == "" {
				contentType = guessContentType(path)
			}

			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			var bar *cli.ProgressBar
			if !params.NoProgress {
				if stderr, ok := streams.Stderr.(*os.File); ok && cli.IsTerminal(stderr) {
					bar = cli.NewProgressBar(stderr, filepath.Base(path))
				}
			}

			upload := messaging.MediaUpload{
				ContentType: contentType,
				Filename:    filepath.Base(path),
				Reader:      file,
				Size:        info.Size(),
			}
			contentURI, err := waitProgress(ctx, func(done func(dispatch.Progress[ref.ContentURI])) *dispatch.Handle {
				return s.client.UploadMedia(upload, done)
			}, func(fraction float64, sent, total int64) {
				if bar != nil {
					bar.Update(fraction, sent, total)
				}
			})
			if bar != nil {
				bar.Finish()
			}
			if err != nil {
				return err
			}

			result := uploadResult{ContentURI: contentURI, ContentType: contentType, Size: info.Size()}
			if !roomID.IsZero() {
				content := messaging.NewMediaMessage(mediaMessageType(contentType), filepath.Base(path), contentURI)
				result.EventID, err = dispatch.Wait(ctx, func(done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
					return s.client.SendMessage(roomID, content, done)
				})
				if err != nil {
					return fmt.Errorf("uploaded as %s but sending to %s failed: %w", contentURI, roomID, err)
				}
			}

			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, result)
			}
			fmt.Fprintf(streams.Stdout, "%s (%s, %s)\n", contentURI, contentType, humanize.Bytes(uint64(info.Size())))
			if !result.EventID.IsZero() {
				fmt.Fprintf(streams.Stdout, "sent as %s\n", result.EventID)
			}
			return nil
		},
	}
}

type uploadResult struct {
	ContentURI  ref.ContentURI `json:"content_uri"`
	ContentType string         `json:"content_type"`
	Size        int64          `json:"size"`
	EventID     ref.EventID    `json:"event_id,omitzero"`
}

// waitProgress is dispatch.Wait for upload operations. onProgress runs
// on the delivering goroutine for each InProgress report.
func waitProgress[T any](ctx context.Context, start func(func(dispatch.Progress[T])) *dispatch.Handle, onProgress func(fraction float64, sent, total int64)) (T, error) {
	return dispatch.Wait(ctx, func(done func(dispatch.Result[T])) *dispatch.Handle {
		return start(func(progress dispatch.Progress[T]) {
			switch report := progress.(type) {
			case dispatch.InProgress[T]:
				fraction, _ := report.Fraction()
				onProgress(fraction, report.Sent(), report.Total())
			case dispatch.Success[T]:
				done(report)
			case dispatch.Failure[T]:
				done(report)
			}
		})
	})
}

func guessContentType(path string) string {
	if guessed := mime.TypeByExtension(filepath.Ext(path)); guessed != "" {
		return guessed
	}
	return "application/octet-stream"
}

// mediaMessageType picks the msgtype clients use to render a file.
func mediaMessageType(contentType string) schema.MessageType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return schema.MessageTypeImage
	case strings.HasPrefix(contentType, "audio/"):
		return schema.MessageTypeAudio
	case strings.HasPrefix(contentType, "video/"):
		return schema.MessageTypeVideo
	default:
		return schema.MessageTypeFile
	}
}
