package pathutil

import (
	"strconv"
	"strings"
)

// PathBuilder builds dotted diagnostics paths incrementally with push/pop
// semantics, materializing the string only when String is called. Index
// segments render in bracket form with no separating dot.
type PathBuilder struct {
	segments []string
	// prior[i] is the materialized length before segments[i] was pushed,
	// so Pop restores length without re-deriving separator rules.
	prior  []int
	length int
}

// Push appends a field segment.
func (p *PathBuilder) Push(segment string) {
	p.prior = append(p.prior, p.length)
	if len(p.segments) > 0 {
		p.length++ // separating dot
	}
	p.length += len(segment)
	p.segments = append(p.segments, segment)
}

// PushIndex appends an array index segment: "[0]", "[1]", etc.
func (p *PathBuilder) PushIndex(i int) {
	seg := "[" + strconv.Itoa(i) + "]"
	p.prior = append(p.prior, p.length)
	p.length += len(seg)
	p.segments = append(p.segments, seg)
}

// Pop removes the most recent segment.
func (p *PathBuilder) Pop() {
	n := len(p.segments)
	if n == 0 {
		return
	}
	p.length = p.prior[n-1]
	p.segments = p.segments[:n-1]
	p.prior = p.prior[:n-1]
}

// Reset clears the builder for reuse.
func (p *PathBuilder) Reset() {
	p.segments = p.segments[:0]
	p.prior = p.prior[:0]
	p.length = 0
}

// String materializes the current path.
func (p *PathBuilder) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(p.length)
	for i, seg := range p.segments {
		if i > 0 && (len(seg) == 0 || seg[0] != '[') {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}
