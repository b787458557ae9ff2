package store

import (
	"context"
	"sync"

	"shop-tracker/internal/models"
)

// Backend é a fronteira de persistência do documento.
// Read devolve o documento gravado sobreposto aos defaults; Write grava apenas
// os campos presentes no patch.
type Backend interface {
	Read(ctx context.Context, defaults models.Document) (models.Document, error)
	Write(ctx context.Context, patch models.Patch) error
}

// MemoryBackend guarda o documento serializado em memória
type MemoryBackend struct {
	mu     sync.Mutex
	fields map[string][]byte

	// FailWrites faz Write retornar este erro (usado em testes)
	FailWrites error
}

// NewMemoryBackend cria um backend em memória vazio
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{fields: make(map[string][]byte)}
}

// Read implementa Backend
func (m *MemoryBackend) Read(_ context.Context, defaults models.Document) (models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := defaults.Clone()
	for key, raw := range m.fields {
		if err := doc.DecodeField(key, raw); err != nil {
			return models.Document{}, err
		}
	}
	return doc, nil
}

// Write implementa Backend
func (m *MemoryBackend) Write(_ context.Context, patch models.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}

	encoded, err := patch.Encode()
	if err != nil {
		return err
	}
	for key, raw := range encoded {
		m.fields[key] = raw
	}
	return nil
}
