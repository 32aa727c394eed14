package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for projection digests. The version suffix allows the
// digest algorithm to change without colliding with old values.
const (
	DomainCube  = "patternspace/cube/v1"
	DomainGraph = "patternspace/graph/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CubeDigest returns a content digest of a cube projection. Two projections
// have the same digest iff their canonical JSON is identical.
func CubeDigest(p CubeProjection) (string, error) {
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("CubeDigest: %w", err)
	}
	return hashWithDomain(DomainCube, canonical), nil
}

// GraphDigest returns a content digest of a graph projection.
func GraphDigest(p GraphProjection) (string, error) {
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("GraphDigest: %w", err)
	}
	return hashWithDomain(DomainGraph, canonical), nil
}
