package document

import (
	"errors"
	"os"
	"strconv"
)

// File is a document source backed by a local file.
type File struct {
	fp   *os.File
	meta map[string]string
}

var _ Source = (*File)(nil)

func NewFile(fname string) (*File, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	fileInfo, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	if fileInfo.IsDir() {
		fp.Close()
		return nil, errors.New("file source could not be a directory")
	}
	return &File{
		fp: fp,
		meta: map[string]string{
			"source":   "file",
			"filename": fileInfo.Name(),
			"modtime":  strconv.FormatInt(fileInfo.ModTime().Unix(), 10),
		},
	}, nil
}

func (d *File) Read(p []byte) (int, error) {
	return d.fp.Read(p)
}

func (d *File) Close() error {
	return d.fp.Close()
}

func (d *File) Meta() map[string]string {
	return d.meta
}
