package auth

import "browsemate/cli/internal/keychain"

// flagValue is the only value that means "logged in".
const flagValue = "true"

// Flag is the persisted "logged in" marker read at startup.
type Flag struct {
	kv KV
}

// NewFlag returns the session flag stored in kv.
func NewFlag(kv KV) *Flag { return &Flag{kv: kv} }

// IsLoggedIn reports whether the flag holds "true". A missing key is false.
func (f *Flag) IsLoggedIn() (bool, error) {
	v, ok, err := f.kv.Get(keychain.KeySessionFlag)
	if err != nil {
		return false, err
	}
	return ok && v == flagValue, nil
}

// SetLoggedIn writes "true" to the flag.
func (f *Flag) SetLoggedIn() error {
	return f.kv.Set(keychain.KeySessionFlag, flagValue)
}

// SetLoggedOut removes the flag.
func (f *Flag) SetLoggedOut() error {
	return f.kv.Remove(keychain.KeySessionFlag)
}
