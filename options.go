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

package bitsy

import (
	"os"

	"go.uber.org/zap"
)

type Options struct {
	// DirectoryPath is the path to the data directory
	DirectoryPath string

	// DataFileSize is the size of the data file
	DataFileSize int64

	// SyncWrites indicates whether to sync for every write to disk
	SyncWrites bool

	// BytesPerSync indicates the cumulative number of bytes written before syncing to disk
	BytesPerSync uint

	// IndexType defines the type for index
	IndexType IndexerType

	// MMapAtStartUp indicates whether to use mmap to load the data file at startup
	MMapAtStartUp bool

	// DataFileMergeRatio indicates the threshold of the data file size to the merge size
	DataFileMergeRatio float32

	// Logger receives structured engine events (open, rollover, stat and close
	// failures); recovery and merge emit no log lines.
	// A nil Logger is replaced by a no-op logger at Open, so embedding the
	// engine never forces log output on the caller.
	Logger *zap.SugaredLogger
}

// IteratorOptions defines the index iterator configuration options
type IteratorOptions struct {
	// Prefix denotes the iteration for the key with given prefix, default null
	Prefix []byte

	// Reverse indicates whether to traverse in reverse direction
	// the default value is false, which means forward traversal
	Reverse bool
}

// WriteBatchOptions defines batch writing configuration options
type WriteBatchOptions struct {
	// MaxBatchNum denotes the max number of pending writes within a batch
	MaxBatchNum uint

	// SyncWrites denotes whether to sync the disk when commiting
	SyncWrites bool
}

type IndexerType = int8

const (
	// BTree indicates an ordered-map index backed by google/btree
	BTree IndexerType = iota + 1

	// SkipList indicates a concurrent ordered-map index backed by a skip list
	SkipList

	// BPlusTree indicates a disk-backed b+tree index
	BPlusTree
)

var DefaultOptions = Options{
	DirectoryPath:      os.TempDir(),
	DataFileSize:       256 * 1024 * 1024, // 256MB
	SyncWrites:         false,
	BytesPerSync:       0,
	IndexType:          BTree,
	MMapAtStartUp:      true,
	DataFileMergeRatio: 0.5,
}

var DefaultIteratorOptions = IteratorOptions{
	Prefix:  nil,
	Reverse: false,
}

var DefaultWriteBatchOptions = WriteBatchOptions{
	MaxBatchNum: 10000,
	SyncWrites:  true,
}
