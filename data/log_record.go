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
	"encoding/binary"
	"hash/crc32"
)

type LogRecordType = byte

const (
	LogRecordNormal LogRecordType = iota
	LogRecordDeleted
	LogRecordTxnFinished
)

// "type" "keySize" "valueSize"
//
//	1  +  (max)5    +  (max)5    bytes
//
// the 4-byte CRC is not part of the header: it trails the record rather than
// leading it, since it covers every byte written before it and is only known
// once the rest is encoded.
const maxLogRecordHeaderSize = 1 + binary.MaxVarintLen32*2

// LogRecord is a record written to a data file consisting Key, Value and Type
// It's called a log because the data in the data file is written in an append format, similar to a log
type LogRecord struct {
	Key   []byte
	Value []byte
	// Type indicates the type of the log record
	// it may be a normal record, a deleted record (tombstone value), or a transaction finished record
	Type LogRecordType
}

// logRecordHeader defines the header information before the key/value payload.
// It does not carry the CRC: the CRC is only known after the payload has been
// laid out, so it is appended after the key and value instead.
type logRecordHeader struct {
	// recordType is the Type field of LogRecord
	recordType LogRecordType
	// keySize is the length of key
	keySize uint32
	// valueSize is the length of value
	valueSize uint32
}

// LogRecordPos defines the data index information consisting Fid, Offset and Size
// It describes the data position in disks (a.k.a, each entry within "keydir")
type LogRecordPos struct {
	// Fid is File id, indicates the file to which the data is stored
	Fid uint32
	// Offset indicates where in the data file the data is stored
	Offset int64
	// Size indicates the size of the encoded record on disk
	Size uint32
}

// TransactionRecord temporarily stores transaction-related data
type TransactionRecord struct {
	Record *LogRecord
	Pos    *LogRecordPos
}

// EncodeLogRecord encodes the LogRecord (easier for file writing)
// and returns the byte array and length
//
// +----------------+-----------------------+-----------------------+------------+--------------+---------------------+
// | type of record |       key size         |      value size        | actual key | actual value | crc checksum value  |
// +----------------+-----------------------+-----------------------+------------+--------------+---------------------+
//
//	1 byte        variable(max 5 bytes)   variable(max 5 bytes)    variable      variable          4 bytes (big-endian)
func EncodeLogRecord(logRecord *LogRecord) ([]byte, int64) {
	// initialize a byte array representing the header part
	header := make([]byte, maxLogRecordHeaderSize)

	// the first byte stores type info
	header[0] = logRecord.Type
	var index = 1

	// we store the length of key and value after the type byte
	// using variable length (unsigned) types to save space
	index += binary.PutUvarint(header[index:], uint64(len(logRecord.Key)))
	index += binary.PutUvarint(header[index:], uint64(len(logRecord.Value)))

	var size = index + len(logRecord.Key) + len(logRecord.Value) + crc32.Size
	encodeBytes := make([]byte, size)

	// copy the header info to the to-be-returned array
	copy(encodeBytes[:index], header[:index])

	// copy the actual key and value to the to-be-returned array directly
	copy(encodeBytes[index:], logRecord.Key)
	copy(encodeBytes[index+len(logRecord.Key):], logRecord.Value)

	// finally, checksum everything preceding the trailer and append it big-endian
	crc := crc32.ChecksumIEEE(encodeBytes[:size-crc32.Size])
	binary.BigEndian.PutUint32(encodeBytes[size-crc32.Size:], crc)

	return encodeBytes, int64(size)
}

// EncodeLogRecordPos encodes the LogRecordPos position information
func EncodeLogRecordPos(pos *LogRecordPos) []byte {
	buffer := make([]byte, binary.MaxVarintLen32*2+binary.MaxVarintLen64)
	var index = 0

	index += binary.PutUvarint(buffer[index:], uint64(pos.Fid))
	index += binary.PutUvarint(buffer[index:], uint64(pos.Offset))
	index += binary.PutUvarint(buffer[index:], uint64(pos.Size))

	return buffer[:index]
}

// DecodeLogRecordPos decodes the byte array into LogRecordPos
func DecodeLogRecordPos(buffer []byte) *LogRecordPos {
	var index = 0

	fileID, numBytes := binary.Uvarint(buffer[index:])
	index += numBytes

	offset, numBytes := binary.Uvarint(buffer[index:])
	index += numBytes

	size, _ := binary.Uvarint(buffer[index:])

	return &LogRecordPos{
		Fid:    uint32(fileID),
		Offset: int64(offset),
		Size:   uint32(size),
	}
}

// decodeLogRecordHeader decodes the header information (type + key/value sizes)
// from the byte array, and also returns the length of the header consumed.
// Returns a nil header when the buffer reads as a clean EOF: both sizes are
// zero, which a real header can never produce (every record the engine writes
// has a non-empty key), so it signals the unwritten tail of a file.
func decodeLogRecordHeader(buffer []byte) (*logRecordHeader, int64) {
	if len(buffer) < 1 {
		return nil, 0
	}

	header := &logRecordHeader{
		recordType: buffer[0],
	}

	var index = 1

	keySize, n := binary.Uvarint(buffer[index:])
	header.keySize = uint32(keySize)
	index += n

	valueSize, n := binary.Uvarint(buffer[index:])
	header.valueSize = uint32(valueSize)
	index += n

	if header.keySize == 0 && header.valueSize == 0 {
		return nil, 0
	}

	return header, int64(index)
}

// decodeCRC reads the big-endian CRC32 trailer appended after a record's
// key and value.
func decodeCRC(buffer []byte) uint32 {
	return binary.BigEndian.Uint32(buffer)
}

// getLogRecordCRC computes the CRC over the header bytes (type + both size
// varints) followed by the key and the value — everything the trailing CRC
// in the encoded record covers.
func getLogRecordCRC(lr *LogRecord, header []byte) uint32 {
	if lr == nil {
		return 0
	}

	crc := crc32.ChecksumIEEE(header)

	crc = crc32.Update(crc, crc32.IEEETable, lr.Key)
	crc = crc32.Update(crc, crc32.IEEETable, lr.Value)

	return crc
}
