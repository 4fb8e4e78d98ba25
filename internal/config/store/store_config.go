package store

// StoreConfig selects the session store backend.
type StoreConfig struct {
	Driver string `json:"driver"` // "sqlite" or "bolt"
	Path   string `json:"path"`
}

func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Driver: "sqlite",
		Path:   "~/.shellchat/chat_sessions.db",
	}
}
