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

import "errors"

var (
	// input errors
	ErrKeyIsEmpty          = errors.New("the key is empty")
	ErrExceedMaxBatchNum   = errors.New("maximum batch numbers has been exceeded")
	ErrDirPathIsEmpty      = errors.New("database directory path is empty")
	ErrDataFileSizeInvalid = errors.New("the data file size of database must be greater than zero")
	ErrInvalidMergeRatio   = errors.New("invalid merge ratio, must be between 0 and 1 inclusive")

	// not-found errors
	ErrKeyNotFound      = errors.New("key is not found in the database")
	ErrDataFileNotFound = errors.New("data file is not found")

	// durability / I/O errors, wrapped around the underlying os error with %w
	// (data file level I/O errors live in the data package, since it is the
	// one that actually performs the reads/writes — see data.ErrFailedReadFromDataFile et al.)
	ErrFailedCreateDatabaseDir = errors.New("failed to create database directory")
	ErrFailedOpenDatabaseDir   = errors.New("failed to open database directory")
	ErrFailedToCopyDir         = errors.New("failed to copy directory")

	// integrity errors
	ErrDataDirectoryCorrupted = errors.New("database directory might be corrupted")

	// concurrency errors
	ErrDatabaseIsUsing       = errors.New("database directory is being used by another process")
	ErrMergeIsInProgress     = errors.New("merging is in progress, please try again later")
	ErrUnableToUseWriteBatch = errors.New("unable to use write batch, seq-no file was not found at open")

	// merge precondition errors
	ErrMergeRatioUnreached   = errors.New("merge ratio does not reach the option")
	ErrNoEnoughSpaceForMerge = errors.New("no enough space on disk for merging")

	// internal invariant errors
	ErrIndexUpdateFailed = errors.New("failed to update index")
)
