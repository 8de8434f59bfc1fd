// SPDX-License-Identifier: Apache-2.0

// Package distributed runs num_comps demes, each its own single-threaded
// genetic-algorithm search, exchanging their best variants around a ring
// after every gen_per_exchange generations — the teacher's goroutine-per-
// worker-plus-WaitGroup-barrier shape, generalized from request handling to
// generation rounds.
package distributed

import (
	"fmt"
	"strings"

	"repairengine/internal/editops"
	"repairengine/internal/representation"
)

// EncodeMessage renders variants in the inter-deme wire format: histories
// joined by '.', each history's edits transmitted newest-first (the
// opposite of application order) so a receiver can replay them by walking
// the message in reverse.
func EncodeMessage(variants []representation.Representation) (string, error) {
	parts := make([]string, len(variants))
	for i, v := range variants {
		s, err := editops.EncodeHistory(reverseHistory(v.History()))
		if err != nil {
			return "", fmt.Errorf("distributed: encoding variant %d: %w", i, err)
		}
		parts[i] = s
	}
	return strings.Join(parts, "."), nil
}

// DecodeMessage parses msg back into fresh variants cloned from base, each
// edit replayed in the reverse of the order it appears on the wire. warn
// receives a note for every dropped crossover-marker or malformed token
// (editops.DecodeHistory's contract); it may be nil.
func DecodeMessage(msg string, base representation.Representation, warn func(string)) ([]representation.Representation, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return nil, nil
	}
	parts := strings.Split(msg, ".")
	out := make([]representation.Representation, 0, len(parts))
	for _, p := range parts {
		h, err := editops.DecodeHistory(p, warn)
		if err != nil {
			return nil, fmt.Errorf("distributed: decoding variant: %w", err)
		}
		v := base.Clone()
		for _, e := range reverseHistory(h) {
			if err := v.Apply(e); err != nil {
				return nil, fmt.Errorf("distributed: replaying decoded edit: %w", err)
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func reverseHistory(h editops.History) editops.History {
	out := make(editops.History, len(h))
	for i, e := range h {
		out[len(h)-1-i] = e
	}
	return out
}
