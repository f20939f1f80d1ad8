// Package idoserver exposes internal/idoprogram's dispatcher and
// internal/idoledger over JSON/HTTP, the way solprogram and chainsol expose
// their SPL programs in this stack.
package idoserver

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gagliardetto/solana-go"

	"solstarter/internal/idoledger"
	"solstarter/internal/idoprogram"
)

var (
	errMethodNotAllowed = errors.New("method not allowed")
	errBadRequest       = errors.New("invalid request body")
	errPoolNotFound     = errors.New("pool not found")
)

// Server holds the in-memory account store every handler dispatches
// against, plus the participation ledger and per-pool write locks.
type Server struct {
	ProgramID solana.PublicKey

	store  *idoprogram.AccountStore
	ledger *idoledger.Store
	log    *slog.Logger

	locksMu sync.Mutex
	locks   map[solana.PublicKey]*sync.Mutex
}

// New builds a Server backed by store and ledger. ledger may be nil, in
// which case events are not persisted (useful for tests).
func New(programID solana.PublicKey, store *idoprogram.AccountStore, ledger *idoledger.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		ProgramID: programID,
		store:     store,
		ledger:    ledger,
		log:       log,
		locks:     make(map[solana.PublicKey]*sync.Mutex),
	}
}

// withPoolLock serializes every call touching pool's Dispatch path, modeling
// the host runtime's guarantee that concurrent transactions against the same
// account are never interleaved. This is ambient HTTP-surface plumbing: the
// dispatcher itself assumes single-threaded, already-serialized invocation.
func (s *Server) withPoolLock(pool solana.PublicKey, fn func() error) error {
	s.locksMu.Lock()
	lock, ok := s.locks[pool]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[pool] = lock
	}
	s.locksMu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn()
}

// recordEvent persists an idoledger.Event, logging but not failing the
// request on a persistence error: the ledger is a read-side convenience,
// never the source of truth for pool state.
func (s *Server) recordEvent(e idoledger.Event) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(&e); err != nil {
		s.log.Error("record ledger event", "kind", e.Kind, "pool", e.Pool, "error", err)
	}
}

func errorCode(err error) uint32 {
	if code, ok := idoprogram.CodeOf(err); ok {
		return uint32(code)
	}
	return 0
}
