package badger

import (
	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// dbLogSink routes Badger's internal printf-style logging into the
// wallet's zap logger so store noise shares one output stream.
type dbLogSink struct {
	log *zap.SugaredLogger
}

var _ badgerdb.Logger = (*dbLogSink)(nil)

func newDBLogSink(logger *zap.Logger) *dbLogSink {
	return &dbLogSink{log: logger.Sugar()}
}

func (s *dbLogSink) Errorf(format string, args ...interface{}) {
	s.log.Errorf(format, args...)
}

func (s *dbLogSink) Warningf(format string, args ...interface{}) {
	s.log.Warnf(format, args...)
}

func (s *dbLogSink) Infof(format string, args ...interface{}) {
	s.log.Infof(format, args...)
}

func (s *dbLogSink) Debugf(format string, args ...interface{}) {
	s.log.Debugf(format, args...)
}
