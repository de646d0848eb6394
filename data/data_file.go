/*
 * Copyright (c) 2024. Shuojiang Liu.
 * Licensed under the MIT License (the "License");
 * you may not use this file except in compliance with the License.
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package data

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"path/filepath"

	"github.com/bitsydb/bitsy/fileio"
)

var (
	ErrInvalidCRC = errors.New("invalid CRC value, log record might be corrupted")

	// durability / I/O errors, wrapped around the underlying os error with %w
	ErrFailedReadFromDataFile = errors.New("failed to read from data file")
	ErrFailedWriteToDataFile  = errors.New("failed to write to data file")
	ErrFailedSyncDataFile     = errors.New("failed to sync data file")
	ErrFailedOpenDataFile     = errors.New("failed to open data file")
)

const (
	DataFileNameSuffix    = ".data"
	HintFileName          = "hint-index"
	MergeFinishedFileName = "merge-finished"
	SeqNoFileName         = "seq-no"
)

// DataFile defines the IO format of data file
type DataFile struct {
	// FileID is the unique identifier of the data file
	FileID uint32

	// WriteOffset indicates the current writing offset of the data file
	WriteOffset int64

	// IoManager is the file IO manager
	IoManager fileio.IOManager
}

// newDataFile creates a new data file
func newDataFile(fileName string, fileID uint32, ioType fileio.FileIOType) (*DataFile, error) {
	// initialize IOManager interface
	ioManager, err := fileio.NewIOManager(fileName, ioType)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrFailedOpenDataFile, fileName, err)
	}

	return &DataFile{
		FileID:      fileID,
		WriteOffset: 0,
		IoManager:   ioManager,
	}, nil
}

// GetDataFileName is a utility function to return the data file name
func GetDataFileName(directoryPath string, fileID uint32) string {
	return filepath.Join(directoryPath, fmt.Sprintf("%09d", fileID)+DataFileNameSuffix)
}

// OpenDataFile opens a new data file
func OpenDataFile(directoryPath string, fileID uint32, ioType fileio.FileIOType) (*DataFile, error) {
	fileName := GetDataFileName(directoryPath, fileID)
	return newDataFile(fileName, fileID, ioType)
}

// OpenHintFile opens the hint index file
func OpenHintFile(directoryPath string) (*DataFile, error) {
	fileName := filepath.Join(directoryPath, HintFileName)
	return newDataFile(fileName, 0, fileio.StandardFileIO)
}

// OpenMergeFinishedFile opens the file that indicates the merge process has finished
func OpenMergeFinishedFile(directoryPath string) (*DataFile, error) {
	fileName := filepath.Join(directoryPath, MergeFinishedFileName)
	return newDataFile(fileName, 0, fileio.StandardFileIO)
}

// OpenSeqNoFile opens the file that stores the transaction sequence number
func OpenSeqNoFile(directoryPath string) (*DataFile, error) {
	fileName := filepath.Join(directoryPath, SeqNoFileName)
	return newDataFile(fileName, 0, fileio.StandardFileIO)
}

// ReadLogRecord reads a LogRecord from the data file at the given offset, in
// the two-read shape the wire format calls for: first enough bytes to decode
// the header (type + both size varints), then exactly the key, value and
// trailing CRC the header says to expect.
func (df *DataFile) ReadLogRecord(offset int64) (*LogRecord, int64, error) {
	fileSize, err := df.IoManager.Size()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrFailedReadFromDataFile, err)
	}

	// Special case: if the maximum header length to be read already exceeds the length of the file
	// just read to the end of the file
	// otherwise we will get EOF error!
	var headerBytes int64 = maxLogRecordHeaderSize
	if offset+maxLogRecordHeaderSize > fileSize {
		headerBytes = fileSize - offset
	}
	if headerBytes <= 0 {
		return nil, 0, io.EOF
	}

	// read header information
	headerBuffer, err := df.readNBytes(headerBytes, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrFailedReadFromDataFile, err)
	}

	header, headerSize := decodeLogRecordHeader(headerBuffer)
	// if we are reading towards the end of file, return EOF error
	if header == nil {
		return nil, 0, io.EOF
	}

	// get the corresponding key length and value length
	keySize, valueSize := int64(header.keySize), int64(header.valueSize)
	// get the LogRecord length: header + key + value + trailing crc
	var recordSize = headerSize + keySize + valueSize + crc32.Size

	logRecord := &LogRecord{
		Type: header.recordType,
	}

	// read the key/value data actually stored by the user, plus the CRC trailer
	kvBuffer, err := df.readNBytes(keySize+valueSize+crc32.Size, offset+headerSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrFailedReadFromDataFile, err)
	}
	logRecord.Key = kvBuffer[:keySize]
	logRecord.Value = kvBuffer[keySize : keySize+valueSize]
	crcTrailer := kvBuffer[keySize+valueSize:]

	// verify the validity of data: recompute the CRC over header+key+value
	// and compare it with the big-endian trailer that was actually read back
	crc := getLogRecordCRC(logRecord, headerBuffer[:headerSize])
	if crc != decodeCRC(crcTrailer) {
		return nil, 0, ErrInvalidCRC
	}

	return logRecord, recordSize, nil
}

// Write writes the given byte array to the data file
func (df *DataFile) Write(buffer []byte) error {
	numBytes, err := df.IoManager.Write(buffer)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedWriteToDataFile, err)
	}
	// note that the offset is updated after the write operation
	df.WriteOffset += int64(numBytes)

	return nil
}

// WriteHintRecord writes the hint record to the hint index file
func (df *DataFile) WriteHintRecord(key []byte, pos *LogRecordPos) error {
	record := &LogRecord{
		Key:   key,
		Value: EncodeLogRecordPos(pos),
	}

	encRecord, _ := EncodeLogRecord(record)
	return df.Write(encRecord)
}

// Sync forces any writes to sync to disk
func (df *DataFile) Sync() error {
	if err := df.IoManager.Sync(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSyncDataFile, err)
	}
	return nil
}

// Close closes the data file
func (df *DataFile) Close() error {
	return df.IoManager.Close()
}

// SetIOManager sets the IO manager for the data file
func (df *DataFile) SetIOManager(directoryPath string, ioType fileio.FileIOType) error {
	if err := df.IoManager.Close(); err != nil {
		return err
	}

	ioManager, err := fileio.NewIOManager(GetDataFileName(directoryPath, df.FileID), ioType)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrFailedOpenDataFile, directoryPath, err)
	}

	df.IoManager = ioManager
	return nil
}

// readNBytes is a utility function that reads n bytes from the data file
func (df *DataFile) readNBytes(numBytes int64, offset int64) (b []byte, err error) {
	b = make([]byte, numBytes)
	_, err = df.IoManager.Read(b, offset)
	return
}
