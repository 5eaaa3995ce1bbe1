package driver

import (
	"crypto/sha256"
	"slices"
)

// Digest is a SHA-256 value, compatible with source.File.Hash.
type Digest [32]byte

// combineDigest: H(content || dep1 || dep2 ...). deps уже в детерминированном порядке.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// checkKey identifies a check result: the file content plus everything
// that can change what the checker reports for it.
func checkKey(content Digest, opts Options) Digest {
	mods := opts.Registry.Names()
	slices.Sort(mods)
	parts := make([]Digest, 0, len(mods)+1)
	for _, m := range mods {
		parts = append(parts, sha256.Sum256([]byte("module:"+m)))
	}
	flags := "shadow=false"
	if opts.WarnShadowing {
		flags = "shadow=true"
	}
	parts = append(parts, sha256.Sum256([]byte(flags)))
	return combineDigest(content, parts...)
}
