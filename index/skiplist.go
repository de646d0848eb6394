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
	"bytes"
	"sort"
	"sync"

	"github.com/bitsydb/bitsy/data"
	"github.com/huandu/skiplist"
)

// bytesLessThan orders keys the same way every other Indexer variant does:
// lexicographically over the raw bytes.
var bytesLessThan skiplist.LessThan = func(lhs, rhs interface{}) bool {
	return bytes.Compare(lhs.([]byte), rhs.([]byte)) < 0
}

// SkipList defines a concurrent ordered-map index, preferred over the plain
// BTree variant under workloads where many reads race with writes.
//
// it encapsulates [https://github.com/huandu/skiplist]
type SkipList struct {
	list *skiplist.SkipList
	lock *sync.RWMutex
}

// NewSkipList constructor creates a new SkipList index structure
func NewSkipList() *SkipList {
	return &SkipList{
		list: skiplist.New(bytesLessThan),
		lock: new(sync.RWMutex),
	}
}

func (sl *SkipList) Put(key []byte, pos *data.LogRecordPos) *data.LogRecordPos {
	sl.lock.Lock()
	defer sl.lock.Unlock()

	var oldPos *data.LogRecordPos
	if elem := sl.list.Get(key); elem != nil {
		oldPos = elem.Value.(*data.LogRecordPos)
	}

	sl.list.Set(key, pos)

	return oldPos
}

func (sl *SkipList) Get(key []byte) *data.LogRecordPos {
	sl.lock.RLock()
	defer sl.lock.RUnlock()

	elem := sl.list.Get(key)
	if elem == nil {
		return nil
	}

	return elem.Value.(*data.LogRecordPos)
}

func (sl *SkipList) Delete(key []byte) (*data.LogRecordPos, bool) {
	sl.lock.Lock()
	defer sl.lock.Unlock()

	elem := sl.list.Remove(key)
	if elem == nil {
		return nil, false
	}

	return elem.Value.(*data.LogRecordPos), true
}

func (sl *SkipList) Size() int {
	sl.lock.RLock()
	defer sl.lock.RUnlock()

	return sl.list.Len()
}

func (sl *SkipList) Close() error {
	return nil
}

func (sl *SkipList) Iterator(reverse bool) Iterator {
	sl.lock.RLock()
	defer sl.lock.RUnlock()

	return newSkipListIterator(sl.list, reverse)
}

// skipListIterator defines a SkipList index iterator
type skipListIterator struct {
	// currentIndex defines the current iterating index position
	currentIndex int

	// reverse determines whether we are iterating backwards
	reverse bool

	// values stores the key and positional indexing information
	values []*Item
}

func newSkipListIterator(list *skiplist.SkipList, reverse bool) *skipListIterator {
	values := make([]*Item, 0, list.Len())

	// put all the data into the array in ascending order
	for elem := list.Front(); elem != nil; elem = elem.Next() {
		values = append(values, &Item{
			key: elem.Key().([]byte),
			pos: elem.Value.(*data.LogRecordPos),
		})
	}

	if reverse {
		for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
			values[i], values[j] = values[j], values[i]
		}
	}

	return &skipListIterator{
		currentIndex: 0,
		reverse:      reverse,
		values:       values,
	}
}

func (sli *skipListIterator) Rewind() {
	sli.currentIndex = 0
}

func (sli *skipListIterator) Seek(key []byte) {
	if sli.reverse {
		sli.currentIndex = sort.Search(len(sli.values), func(i int) bool {
			return bytes.Compare(sli.values[i].key, key) <= 0
		})
	} else {
		sli.currentIndex = sort.Search(len(sli.values), func(i int) bool {
			return bytes.Compare(sli.values[i].key, key) >= 0
		})
	}
}

func (sli *skipListIterator) Next() {
	sli.currentIndex += 1
}

func (sli *skipListIterator) Valid() bool {
	return sli.currentIndex < len(sli.values)
}

func (sli *skipListIterator) Key() []byte {
	return sli.values[sli.currentIndex].key
}

func (sli *skipListIterator) Value() *data.LogRecordPos {
	return sli.values[sli.currentIndex].pos
}

func (sli *skipListIterator) Close() {
	sli.values = nil
}
