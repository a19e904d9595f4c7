package utils_test

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shellrun/internal/utils"
)

type syncRecordingWriter struct {
	bytes.Buffer
	syncCount int
	syncError error
}

func (writer *syncRecordingWriter) Sync() error {
	writer.syncCount++
	return writer.syncError
}

func TestFlushingWriterFlushesBufferedWriter(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriter(&destination)
	flushingWriter := utils.NewFlushingWriter(bufferedWriter)

	bytesWritten, writeError := flushingWriter.Write([]byte("ERROR: Shell exited 5\n"))

	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 22, bytesWritten)
	require.Equal(testInstance, "ERROR: Shell exited 5\n", destination.String())
}

func TestFlushingWriterDoesNotDoubleWrap(testInstance *testing.T) {
	flushingWriter := utils.NewFlushingWriter(&bytes.Buffer{})
	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
}

func TestFlushingWriterSync(testInstance *testing.T) {
	recordingWriter := &syncRecordingWriter{syncError: errors.New("sync failed")}
	flushingWriter := utils.NewFlushingWriter(recordingWriter)

	require.EqualError(testInstance, flushingWriter.Sync(), "sync failed")
	require.Equal(testInstance, 1, recordingWriter.syncCount)
	require.NoError(testInstance, utils.NewFlushingWriter(&bytes.Buffer{}).Sync())
}
