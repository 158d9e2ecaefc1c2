package storage

// Store bundles the stores that share one KV backend.
type Store struct {
	KV            KV
	Versions      *VersionStore
	Conversations *ConversationStore
	Ads           *AdStore
}

// New builds all stores on top of kv.
func New(kv KV) *Store {
	return &Store{
		KV:            kv,
		Versions:      NewVersionStore(kv),
		Conversations: NewConversationStore(kv),
		Ads:           NewAdStore(kv),
	}
}

// OpenStore opens the backend in dataDir and builds the stores on it.
func OpenStore(backend, dataDir string) (*Store, error) {
	kv, err := Open(backend, dataDir)
	if err != nil {
		return nil, err
	}
	return New(kv), nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.KV.Close()
}
