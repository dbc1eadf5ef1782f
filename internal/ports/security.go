package ports

// PasswordHasher is the only place a plaintext secret is computed over.
// Hash salts every call, so two digests of the same input always differ;
// Verify is deterministic per (password, digest) pair and reports false,
// never an error, on malformed input.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}
