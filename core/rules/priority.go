package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/richtext/core/errors"
)

// Bucket is a named priority band.
type Bucket int8

// Priority buckets, lowest first.
const (
	Lowest Bucket = iota - 2
	Low
	Normal
	High
	Highest
)

var bucketNames = map[Bucket]string{
	Lowest:  "lowest",
	Low:     "low",
	Normal:  "normal",
	High:    "high",
	Highest: "highest",
}

// String returns the bucket name.
func (b Bucket) String() string {
	if name, ok := bucketNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Bucket(%d)", int8(b))
}

// Priority orders hooks running at the same node and phase. Buckets
// compare first, Rank breaks ties within a bucket. The zero value is
// normal priority.
type Priority struct {
	Bucket Bucket
	Rank   int
}

// Common priorities.
var (
	PriorityLowest  = Priority{Bucket: Lowest}
	PriorityLow     = Priority{Bucket: Low}
	PriorityNormal  = Priority{Bucket: Normal}
	PriorityHigh    = Priority{Bucket: High}
	PriorityHighest = Priority{Bucket: Highest}
)

// Plus returns p with its rank raised by n.
func (p Priority) Plus(n int) Priority {
	p.Rank += n
	return p
}

// Compare returns -1, 0 or +1 as p is lower than, equal to or higher than o.
func (p Priority) Compare(o Priority) int {
	switch {
	case p.Bucket < o.Bucket:
		return -1
	case p.Bucket > o.Bucket:
		return 1
	case p.Rank < o.Rank:
		return -1
	case p.Rank > o.Rank:
		return 1
	}
	return 0
}

// String returns the priority as "bucket", "bucket+n" or "bucket-n".
func (p Priority) String() string {
	switch {
	case p.Rank > 0:
		return fmt.Sprintf("%s+%d", p.Bucket, p.Rank)
	case p.Rank < 0:
		return fmt.Sprintf("%s%d", p.Bucket, p.Rank)
	}
	return p.Bucket.String()
}

// ParsePriority parses the String form. A bare integer is a rank in the
// normal bucket.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return PriorityNormal, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Priority{Bucket: Normal, Rank: n}, nil
	}

	name, rank := s, ""
	if i := strings.IndexAny(s, "+-"); i > 0 {
		name, rank = s[:i], s[i:]
	}

	var p Priority
	found := false
	for b, n := range bucketNames {
		if n == name {
			p.Bucket = b
			found = true
			break
		}
	}
	if !found {
		return Priority{}, errors.NewUnsupported("priority", fmt.Sprintf("%q", s))
	}

	if rank != "" {
		n, err := strconv.Atoi(rank)
		if err != nil {
			return Priority{}, errors.NewUnsupported("priority", fmt.Sprintf("rank %q", rank))
		}
		p.Rank = n
	}
	return p, nil
}
