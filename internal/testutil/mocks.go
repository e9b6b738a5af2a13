package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/udisondev/sleeper/internal/model"
)

// MockPlayerData: in-memory хранилище persistent data для unit тестов.
// Реализует LoadPlayer/SavePlayer как у PlayerDataStore сервера.
type MockPlayerData struct {
	mu      sync.Mutex
	data    map[string]map[string][]byte
	saves   int
	saveErr error
}

// NewMockPlayerData создаёт пустое хранилище.
func NewMockPlayerData() *MockPlayerData {
	return &MockPlayerData{data: make(map[string]map[string][]byte)}
}

// LoadPlayer заполняет контейнер игрока сохранёнными значениями.
func (m *MockPlayerData) LoadPlayer(_ context.Context, player *model.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if values, ok := m.data[strings.ToLower(player.Name())]; ok {
		player.PersistentData().Load(maps.Clone(values))
	}
	return nil
}

// SavePlayer сохраняет snapshot контейнера игрока.
func (m *MockPlayerData) SavePlayer(_ context.Context, player *model.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[strings.ToLower(player.Name())] = player.PersistentData().Checkpoint()
	m.saves++
	return nil
}

// Put задаёт сохранённые значения для игрока.
func (m *MockPlayerData) Put(name string, values map[string][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[strings.ToLower(name)] = values
}

// Stored возвращает сохранённые значения игрока.
func (m *MockPlayerData) Stored(name string) (map[string][]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[strings.ToLower(name)]
	return maps.Clone(v), ok
}

// Saves возвращает количество успешных SavePlayer.
func (m *MockPlayerData) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailSaves заставляет SavePlayer возвращать err (nil: сбросить).
func (m *MockPlayerData) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// ErrMockConnClosed возвращается MockConn после Close.
var ErrMockConnClosed = errors.New("mock conn closed")

// MockConn: mock для net.Conn, используется в unit тестах.
// Write безопасен для вызова из writePump параллельно с чтением Written.
type MockConn struct {
	mu         sync.Mutex
	readBuf    bytes.Buffer
	writeBuf   bytes.Buffer
	writeCount int
	writeErr   error
	closed     bool
	closedCh   chan struct{}
}

// NewMockConn создаёт новый MockConn экземпляр.
func NewMockConn() *MockConn {
	return &MockConn{closedCh: make(chan struct{})}
}

// Feed добавляет данные, которые вернёт Read.
func (m *MockConn) Feed(b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf.Write(b)
}

// Read читает данные из readBuf; io.EOF когда данных нет.
func (m *MockConn) Read(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readBuf.Len() == 0 {
		return 0, io.EOF
	}
	return m.readBuf.Read(b)
}

// Write записывает данные в writeBuf.
func (m *MockConn) Write(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrMockConnClosed
	}
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.writeCount++
	return m.writeBuf.Write(b)
}

// FailWrites заставляет Write возвращать err.
func (m *MockConn) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Written возвращает копию всех записанных байт.
func (m *MockConn) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.writeBuf.Bytes())
}

// WriteCount returns the number of Write() calls since creation.
func (m *MockConn) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeCount
}

// Close закрывает соединение.
func (m *MockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.closedCh)
	}
	return nil
}

// Closed закрывается после первого Close.
func (m *MockConn) Closed() <-chan struct{} {
	return m.closedCh
}

// LocalAddr возвращает локальный адрес (mock).
func (m *MockConn) LocalAddr() net.Addr {
	return TCPAddr("127.0.0.1:25565")
}

// RemoteAddr возвращает удалённый адрес (mock).
func (m *MockConn) RemoteAddr() net.Addr {
	return TCPAddr("192.168.1.100:12345")
}

// SetDeadline устанавливает deadline (no-op).
func (m *MockConn) SetDeadline(time.Time) error { return nil }

// SetReadDeadline устанавливает read deadline (no-op).
func (m *MockConn) SetReadDeadline(time.Time) error { return nil }

// SetWriteDeadline устанавливает write deadline (no-op).
func (m *MockConn) SetWriteDeadline(time.Time) error { return nil }
