package corpus

import (
	"crypto/md5"
	"encoding/binary"
)

// Split names a corpus partition.
type Split string

const (
	SplitTrain Split = "train"
	SplitDev   Split = "dev"
	SplitTest  Split = "test"
)

// Splits lists the partitions in manifest order.
var Splits = []Split{SplitTrain, SplitDev, SplitTest}

const (
	trainBoundary = 0.82
	devBoundary   = 0.907
)

// AssignSplit maps a clean recording ID to its partition. The first four
// MD5 digest bytes, read big endian and scaled by 1/0xFFFFFFFF, give a
// uniform u in [0, 1]: u < 0.82 is train, u < 0.907 dev, the rest test.
func AssignSplit(cleanID string) Split {
	sum := md5.Sum([]byte(cleanID))
	u := float64(binary.BigEndian.Uint32(sum[:4])) / float64(0xFFFFFFFF)
	switch {
	case u < trainBoundary:
		return SplitTrain
	case u < devBoundary:
		return SplitDev
	default:
		return SplitTest
	}
}
