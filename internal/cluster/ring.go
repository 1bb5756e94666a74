// Package cluster implements everything a node needs to cooperate with its
// peers: consistent-hash key routing, membership and failure detection,
// request routing (local-serve vs. forward vs. replicate), and the
// anti-entropy sync that repairs gaps after a peer comes back.
package cluster

import (
	"bytes"
	"crypto/md5"
	"sort"
)

// Replicas computes the ordered replica set for key given a membership
// view. It is a pure function: same (key, view, rf) always produces the
// same ordered list on every node, which is what lets every node compute
// routing decisions independently and agree (spec invariant I3).
//
// Algorithm: hash every node id and the key with MD5, sort the node ids by
// their hash, find the first node whose hash is >= the key's hash, and
// walk forward from there collecting min(rf, len(view)) distinct node ids,
// wrapping around the end of the sorted list. There are no virtual nodes —
// load skew is bounded by MD5's distribution over a small membership,
// which is an acceptable tradeoff at the replication factors this system
// runs at.
//
// Ties (two node ids hashing identically) are broken by lexicographic
// node id order, so the sort itself is always a strict total order.
func Replicas(key string, view []string, rf int) []string {
	if len(view) == 0 || rf <= 0 {
		return nil
	}

	type ringPoint struct {
		hash [md5.Size]byte
		id   string
	}

	points := make([]ringPoint, len(view))
	for i, id := range view {
		points[i] = ringPoint{hash: md5.Sum([]byte(id)), id: id}
	}
	sort.Slice(points, func(i, j int) bool {
		c := bytes.Compare(points[i].hash[:], points[j].hash[:])
		if c != 0 {
			return c < 0
		}
		return points[i].id < points[j].id
	})

	keyHash := md5.Sum([]byte(key))
	start := sort.Search(len(points), func(i int) bool {
		return bytes.Compare(points[i].hash[:], keyHash[:]) >= 0
	})
	if start == len(points) {
		start = 0
	}

	n := rf
	if n > len(points) {
		n = len(points)
	}

	out := make([]string, 0, n)
	for i := 0; i < len(points) && len(out) < n; i++ {
		out = append(out, points[(start+i)%len(points)].id)
	}
	return out
}

// Primary returns the first element of replicas, the node non-owners
// forward client requests to.
func Primary(replicas []string) string {
	if len(replicas) == 0 {
		return ""
	}
	return replicas[0]
}

// Contains reports whether id appears in replicas.
func Contains(replicas []string, id string) bool {
	for _, r := range replicas {
		if r == id {
			return true
		}
	}
	return false
}
