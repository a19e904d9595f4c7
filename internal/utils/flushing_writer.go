package utils

import (
	"io"
	"sync"

	"go.uber.org/zap/zapcore"
)

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

// FlushingWriter serializes writes to a shared stream and pushes buffered data out after every write.
// It satisfies zapcore.WriteSyncer so loggers and reporters can share one stream without interleaving lines.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writer. A writer that is already a FlushingWriter is returned unchanged.
func NewFlushingWriter(writer io.Writer) *FlushingWriter {
	if existingWriter, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	return &FlushingWriter{writer: writer}
}

// Write forwards data and flushes the underlying writer when it buffers.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return len(data), nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if bufferedWriter, buffers := flushingWriter.writer.(flusher); buffers {
		return bytesWritten, bufferedWriter.Flush()
	}
	return bytesWritten, nil
}

// Sync implements zapcore.WriteSyncer. Streams without a Sync method are treated as already synchronized.
func (flushingWriter *FlushingWriter) Sync() error {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	if syncingWriter, syncs := flushingWriter.writer.(syncer); syncs {
		return syncingWriter.Sync()
	}
	return nil
}

var _ zapcore.WriteSyncer = (*FlushingWriter)(nil)
