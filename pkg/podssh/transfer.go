package podssh

import (
	"context"
	"io"

	"go.uber.org/zap"

	breverrors "github.com/runpod/podssh/pkg/errors"
)

// PutFile uploads localPath to remotePath over sftp, overwriting it. The
// sftp channel lives only for this call.
func (c *Connection) PutFile(ctx context.Context, localPath, remotePath string) (err error) {
	if err = c.ensureOpen("put"); err != nil {
		return err
	}
	dst := c.podID + ":" + remotePath
	transferErr := func(err error) error { return breverrors.NewTransferError(localPath, dst, err) }

	src, err := c.fs.Open(localPath)
	if err != nil {
		return transferErr(err)
	}
	defer src.Close() //nolint:errcheck // read only
	info, err := src.Stat()
	if err != nil {
		return transferErr(err)
	}
	if info.IsDir() {
		return transferErr(breverrors.New(localPath + " is a directory"))
	}

	client, err := c.client.NewSFTP()
	if err != nil {
		return transferErr(err)
	}
	defer client.Close() //nolint:errcheck // file close below reports write failures

	remote, err := client.Create(remotePath)
	if err != nil {
		return transferErr(err)
	}
	defer func() {
		if cerr := remote.Close(); cerr != nil && err == nil {
			err = transferErr(cerr)
		}
	}()

	c.logger.Debug("uploading", zap.String("src", localPath), zap.String("dst", remotePath), zap.Int64("bytes", info.Size()))
	if err = c.copy(ctx, remote, src, localPath, info.Size()); err != nil {
		return transferErr(err)
	}
	return nil
}

// GetFile downloads remotePath to localPath. The local file is only created
// once the remote file has been opened.
func (c *Connection) GetFile(ctx context.Context, remotePath, localPath string) (err error) {
	if err = c.ensureOpen("get"); err != nil {
		return err
	}
	src := c.podID + ":" + remotePath
	transferErr := func(err error) error { return breverrors.NewTransferError(src, localPath, err) }

	client, err := c.client.NewSFTP()
	if err != nil {
		return transferErr(err)
	}
	defer client.Close() //nolint:errcheck // read only

	info, err := client.Stat(remotePath)
	if err != nil {
		return transferErr(err)
	}
	if info.IsDir() {
		return transferErr(breverrors.New(remotePath + " is a directory"))
	}
	remote, err := client.Open(remotePath)
	if err != nil {
		return transferErr(err)
	}
	defer remote.Close() //nolint:errcheck // read only

	local, err := c.fs.Create(localPath)
	if err != nil {
		return transferErr(err)
	}
	defer func() {
		if cerr := local.Close(); cerr != nil && err == nil {
			err = transferErr(cerr)
		}
		if err != nil {
			if rerr := c.fs.Remove(localPath); rerr != nil {
				c.logger.Debug("removing partial download", zap.String("path", localPath), zap.Error(rerr))
			}
		}
	}()

	c.logger.Debug("downloading", zap.String("src", remotePath), zap.String("dst", localPath), zap.Int64("bytes", info.Size()))
	if err = c.copy(ctx, local, remote, remotePath, info.Size()); err != nil {
		return transferErr(err)
	}
	return nil
}

func (c *Connection) copy(ctx context.Context, dst io.Writer, src io.Reader, name string, size int64) error {
	if c.progress != nil {
		if bar := c.progress(name, size); bar != nil {
			dst = io.MultiWriter(dst, bar)
		}
	}
	_, err := io.Copy(dst, &ctxReader{ctx: ctx, r: src})
	return err //nolint:wrapcheck // wrapped as TransferError by the caller
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err //nolint:wrapcheck // context errors pass through
	}
	return r.r.Read(p) //nolint:wrapcheck // passthrough
}
