package logging

import (
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat/go-file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

// NewFileRotateHooker writes every level to daily rotated files
// path/filename-YYYYMMDD.log, with path/filename.log linking the newest.
// age is the retention in years, zero keeps files forever.
func NewFileRotateHooker(path, filename string, age uint32, formatter logrus.Formatter) (logrus.Hook, error) {
	if len(path) == 0 {
		return nil, errors.New("empty logger folder")
	}
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve logger folder %s", path)
		}
		path = abs
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, errors.Wrapf(err, "create logger folder %s", path)
	}

	options := []rotatelogs.Option{
		rotatelogs.WithLinkName(filepath.Join(path, filename+".log")),
		rotatelogs.WithRotationTime(24 * time.Hour),
	}
	if age > 0 {
		options = append(options, rotatelogs.WithMaxAge(time.Duration(age)*365*24*time.Hour))
	}
	writer, err := rotatelogs.New(filepath.Join(path, filename+"-%Y%m%d.log"), options...)
	if err != nil {
		return nil, errors.Wrap(err, "create rotate logs")
	}

	return lfshook.NewHook(lfshook.WriterMap{
		logrus.TraceLevel: writer,
		logrus.DebugLevel: writer,
		logrus.InfoLevel:  writer,
		logrus.WarnLevel:  writer,
		logrus.ErrorLevel: writer,
		logrus.FatalLevel: writer,
		logrus.PanicLevel: writer,
	}, formatter), nil
}
