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

package index

import (
	"testing"

	"github.com/bitsydb/bitsy/data"
	"github.com/stretchr/testify/assert"
)

func TestSkipList_Put(t *testing.T) {
	sl := NewSkipList()

	result1 := sl.Put([]byte("a"), &data.LogRecordPos{Fid: 1, Offset: 2})
	assert.Nil(t, result1)

	result2 := sl.Put([]byte("a"), &data.LogRecordPos{Fid: 11, Offset: 12})
	assert.Equal(t, result2.Fid, uint32(1))
	assert.Equal(t, result2.Offset, int64(2))
}

func TestSkipList_Get(t *testing.T) {
	sl := NewSkipList()

	result1 := sl.Put([]byte("a"), &data.LogRecordPos{Fid: 1, Offset: 100})
	assert.Nil(t, result1)

	pos1 := sl.Get([]byte("a"))
	assert.Equal(t, pos1.Fid, uint32(1))
	assert.Equal(t, pos1.Offset, int64(100))

	result2 := sl.Put([]byte("a"), &data.LogRecordPos{Fid: 1, Offset: 3})
	assert.Equal(t, result2.Fid, uint32(1))
	assert.Equal(t, result2.Offset, int64(100))

	pos2 := sl.Get([]byte("a"))
	assert.Equal(t, pos2.Fid, uint32(1))
	assert.Equal(t, pos2.Offset, int64(3))

	pos3 := sl.Get([]byte("missing"))
	assert.Nil(t, pos3)
}

func TestSkipList_Delete(t *testing.T) {
	sl := NewSkipList()

	result1 := sl.Put([]byte("some"), &data.LogRecordPos{Fid: 42, Offset: 35})
	assert.Nil(t, result1)

	result2, ok := sl.Delete([]byte("some"))
	assert.True(t, ok)
	assert.Equal(t, result2.Fid, uint32(42))
	assert.Equal(t, result2.Offset, int64(35))

	_, ok = sl.Delete([]byte("some"))
	assert.False(t, ok)
}

func TestSkipList_Size(t *testing.T) {
	sl := NewSkipList()
	assert.Equal(t, 0, sl.Size())

	sl.Put([]byte("a"), &data.LogRecordPos{Fid: 1, Offset: 1})
	sl.Put([]byte("b"), &data.LogRecordPos{Fid: 1, Offset: 2})
	assert.Equal(t, 2, sl.Size())

	sl.Delete([]byte("a"))
	assert.Equal(t, 1, sl.Size())
}

func TestSkipList_Iterator(t *testing.T) {
	sl1 := NewSkipList()

	// (1) test for a null SkipList
	iter1 := sl1.Iterator(false)
	assert.Equal(t, false, iter1.Valid())

	// (2) test for SkipList with one value
	sl1.Put([]byte("golang"), &data.LogRecordPos{Fid: 1, Offset: 10})
	iter2 := sl1.Iterator(false)
	assert.Equal(t, true, iter2.Valid())
	assert.NotNil(t, iter2.Key())
	assert.NotNil(t, iter2.Value())
	iter2.Next()
	assert.Equal(t, false, iter2.Valid())

	// (3) test for multiple data entries, ascending and descending
	sl1.Put([]byte("awsl"), &data.LogRecordPos{Fid: 1, Offset: 10})
	sl1.Put([]byte("java"), &data.LogRecordPos{Fid: 1, Offset: 10})
	sl1.Put([]byte("dart"), &data.LogRecordPos{Fid: 1, Offset: 10})

	var ascending []string
	iter3 := sl1.Iterator(false)
	for iter3.Rewind(); iter3.Valid(); iter3.Next() {
		ascending = append(ascending, string(iter3.Key()))
	}
	assert.Equal(t, []string{"awsl", "dart", "golang", "java"}, ascending)

	var descending []string
	iter4 := sl1.Iterator(true)
	for iter4.Rewind(); iter4.Valid(); iter4.Next() {
		descending = append(descending, string(iter4.Key()))
	}
	assert.Equal(t, []string{"java", "golang", "dart", "awsl"}, descending)

	// (4) test for seek
	iter5 := sl1.Iterator(false)
	for iter5.Seek([]byte("bxt")); iter5.Valid(); iter5.Next() {
		assert.NotNil(t, iter5.Key())
	}

	// (5) test for reversing seek
	iter6 := sl1.Iterator(true)
	for iter6.Seek([]byte("zzz")); iter6.Valid(); iter6.Next() {
		assert.NotNil(t, iter6.Key())
	}

	iter6.Close()
	assert.Nil(t, iter6.(*skipListIterator).values)
}
