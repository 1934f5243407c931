package credentials

// File is the on-disk layout of credentials.toml in the .disrello directory.
type File struct {
	Version   int                 `toml:"version"`
	Providers map[string]KeyEntry `toml:"providers"`
}

// KeyEntry is a stored secret for one LLM provider.
type KeyEntry struct {
	APIKey string `toml:"api_key"`
}
