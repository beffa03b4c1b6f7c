// Package dedupe groups images with near-identical fingerprints into
// duplicate groups.
package dedupe

import "dupfinder/fingerprint"

// DefaultThreshold is the minimum similarity percentage at which two
// fingerprints are considered duplicates. At 90% an 8x8 fingerprint may
// differ in at most 6 of its 64 bits.
const DefaultThreshold = 90.0

// Record is one image in a batch: an opaque stable identifier, the
// source path for reporting, and the image's fingerprint.
type Record struct {
	ID          string
	Path        string
	Fingerprint fingerprint.Fingerprint
}

// Group is a non-empty ordered set of records sharing near-identical
// fingerprints. The first record is the seed: the image to keep. The
// remainder are its duplicates.
type Group struct {
	Records []Record
}

// Keep returns the group's seed record.
func (g Group) Keep() Record { return g.Records[0] }

// Duplicates returns the group's members after the seed.
func (g Group) Duplicates() []Record { return g.Records[1:] }

// FindGroups partitions records into duplicate groups using single-link
// clustering: records are scanned in input order, each unprocessed
// record seeds a new group, and every later unprocessed record whose
// similarity to the seed reaches the threshold joins that group.
// Membership is decided against the seed only, so a record within
// threshold of two mutually dissimilar seeds joins whichever seed comes
// first in the input. Groups are returned in seed order; groups with a
// single member are not reported, their seed simply stays unique.
func FindGroups(records []Record, threshold float64) []Group {
	if len(records) < 2 {
		return nil
	}

	processed := make(map[string]bool, len(records))
	var groups []Group

	for i, seed := range records {
		if processed[seed.ID] {
			continue
		}
		processed[seed.ID] = true

		group := Group{Records: []Record{seed}}
		for _, candidate := range records[i+1:] {
			if processed[candidate.ID] {
				continue
			}
			if fingerprint.Similarity(seed.Fingerprint, candidate.Fingerprint) >= threshold {
				group.Records = append(group.Records, candidate)
				processed[candidate.ID] = true
			}
		}

		if len(group.Records) > 1 {
			groups = append(groups, group)
		}
	}

	return groups
}
