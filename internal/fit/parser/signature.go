package parser

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Signature fingerprints a ship type plus its fitted-item multiset. Only
// multiset membership matters: the input order and grouping of repeated
// items never change the result. The canonical form is
// "{ship}:{type1}:{count1},{type2}:{count2},..." with distinct type IDs in
// ascending order, hashed to a 32-character lowercase hex string.
func Signature(shipTypeID int64, itemTypeIDs []int64) string {
	counts := make(map[int64]int, len(itemTypeIDs))
	for _, id := range itemTypeIDs {
		counts[id]++
	}

	distinct := make([]int64, 0, len(counts))
	for id := range counts {
		distinct = append(distinct, id)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	var b strings.Builder
	b.WriteString(strconv.FormatInt(shipTypeID, 10))
	b.WriteByte(':')
	for i, id := range distinct {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(counts[id]))
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
