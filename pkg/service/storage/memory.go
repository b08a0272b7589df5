package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/domain/model"
)

// Memory keeps documents in process memory. For development and tests.
type Memory struct {
	mu    sync.RWMutex
	files map[string]memoryFile
}

type memoryFile struct {
	contentType string
	data        []byte
}

var _ interfaces.FileStorage = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		files: make(map[string]memoryFile),
	}
}

func (m *Memory) Put(ctx context.Context, path string, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read content", goerr.V("path", path))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = memoryFile{contentType: contentType, data: data}

	return int64(len(data)), nil
}

func (m *Memory) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "file not found", goerr.V("path", path))
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

// Len returns the number of stored files
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// ContentType returns the content type recorded for the path
func (m *Memory) ContentType(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path]
	return f.contentType, ok
}

func (m *Memory) Close() error {
	return nil
}
