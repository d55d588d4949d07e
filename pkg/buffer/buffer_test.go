package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_AllocatesRequestedSize(t *testing.T) {
	b := New(1024)
	assert.Equal(t, 1024, b.Size())
	assert.Len(t, b.Data(), 1024)
	assert.Zero(t, b.Version())
}

func TestNew_NegativeSizeIsEmpty(t *testing.T) {
	b := New(-5)
	assert.Equal(t, 0, b.Size())
}

func TestResize_ChangesCapacity(t *testing.T) {
	b := New(16)
	b.Resize(4)
	assert.Equal(t, 4, b.Size())
	b.Resize(64)
	assert.Equal(t, 64, b.Size())
	assert.Equal(t, uint64(2), b.Version())
}

func TestWrite_DoesNotGrow(t *testing.T) {
	b := New(4)
	n := b.Write([]byte("abcdefgh"))
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, b.Size())
	assert.Equal(t, []byte("abcd"), b.Bytes())
}

func TestRead_CopiesOut(t *testing.T) {
	b := New(3)
	b.Write([]byte{1, 2, 3})

	p := make([]byte, 2)
	n := b.Read(p)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{1, 2}, p)
}

func TestBytes_ReturnsIndependentCopy(t *testing.T) {
	b := New(2)
	b.Write([]byte{7, 8})

	out := b.Bytes()
	out[0] = 0
	assert.Equal(t, []byte{7, 8}, b.Bytes())
}

func TestData_SharesStorage(t *testing.T) {
	b := New(2)
	b.Data()[1] = 9
	assert.Equal(t, []byte{0, 9}, b.Bytes())
}

func TestBuffer_ConcurrentWriteAndRead(t *testing.T) {
	b := New(8)
	var wg sync.WaitGroup
	const workers = 50

	wg.Add(workers * 2)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			b.Write([]byte{byte(i), byte(i), byte(i), byte(i), byte(i), byte(i), byte(i), byte(i)})
		}(i)
		go func() {
			defer wg.Done()
			snapshot := b.Bytes()
			if !assert.Len(t, snapshot, 8) {
				return
			}
			// Writes are atomic with respect to reads: every byte is equal.
			for _, v := range snapshot {
				assert.Equal(t, snapshot[0], v)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(workers), b.Version())
}
