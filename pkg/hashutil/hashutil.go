package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoSHA256 HashAlgo = "sha256"
	HashAlgoBLAKE3 HashAlgo = "blake3"
)

// HashBytes returns the hex digest of data using the given algorithm.
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	switch algo {
	case HashAlgoSHA256:
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	case HashAlgoBLAKE3:
		sum := blake3.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
}

// Digest returns a self-describing digest such as "blake3:ab12...".
func Digest(data []byte, algo HashAlgo) (string, error) {
	sum, err := HashBytes(data, algo)
	if err != nil {
		return "", err
	}
	return string(algo) + ":" + sum, nil
}

// Verify reports whether data matches a digest produced by Digest.
func Verify(data []byte, digest string) (bool, error) {
	algo, _, ok := strings.Cut(digest, ":")
	if !ok {
		return false, fmt.Errorf("malformed digest: %q", digest)
	}
	got, err := Digest(data, HashAlgo(algo))
	if err != nil {
		return false, err
	}
	return got == digest, nil
}
