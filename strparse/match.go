// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package strparse

// Match is the result of running a graph over an input: for every capture
// group that took part in the match, the span of input it consumed.
type Match struct {
	runes []rune
	spans map[*State][2]int
	trail []capRecord
}

// Text returns the input consumed by capture group s, and whether s matched
// at all.
func (m *Match) Text(s *State) (string, bool) {
	span, ok := m.spans[s]
	if !ok {
		return "", false
	}
	return string(m.runes[span[0]:span[1]]), true
}

// Matched reports whether capture group s took part in the match.
func (m *Match) Matched(s *State) bool {
	_, ok := m.spans[s]
	return ok
}

// Texts returns every span capture group s matched, in match order; groups
// inside repetitions match once per iteration.
func (m *Match) Texts(s *State) []string {
	var texts []string
	for _, rec := range m.trail {
		if rec.state == s {
			texts = append(texts, string(m.runes[rec.begin:rec.end]))
		}
	}
	return texts
}

type capRecord struct {
	state      *State
	begin, end int
}

type matcher struct {
	runes []rune
	trail []capRecord
}

// MatchFull runs the graph rooted at start over the whole input; partial
// consumption is a failure.  Returns nil when the input does not match.
func (p *Parser) MatchFull(start *State, input []byte) *Match {
	m := &matcher{runes: decodeInput(input)}
	ok := m.run(start, 0, func(end int) bool {
		return end == len(m.runes)
	})
	if !ok {
		return nil
	}
	result := &Match{runes: m.runes, spans: make(map[*State][2]int, len(m.trail)), trail: m.trail}
	// The trail is in success order; later records win for groups that
	// matched more than once.
	for _, rec := range m.trail {
		result.spans[rec.state] = [2]int{rec.begin, rec.end}
	}
	return result
}

// run tries s at pos, then s's alternatives; k is the continuation applied
// to the position after s's chain.
func (m *matcher) run(s *State, pos int, k func(int) bool) bool {
	if s == nil {
		// A nil state terminates a chain.
		return k(pos)
	}
	for ; s != nil; s = s.alternative {
		if m.runOne(s, pos, k) {
			return true
		}
	}
	return false
}

func (m *matcher) runOne(s *State, pos int, k func(int) bool) bool {
	cont := func(end int) bool {
		return m.run(s.next, end, k)
	}
	switch s.typ {
	case stateCodepoint, stateCPRange:
		if pos < len(m.runes) && m.runes[pos] >= s.first && m.runes[pos] <= s.last {
			return cont(pos + 1)
		}
		return false
	case stateBegin:
		return pos == 0 && cont(pos)
	case stateEnd:
		return pos == len(m.runes) && cont(pos)
	case stateCapture:
		mark := len(m.trail)
		var ok bool
		if s.inner == nil {
			m.trail = append(m.trail, capRecord{s, pos, pos})
			ok = cont(pos)
		} else {
			ok = m.run(s.inner, pos, func(end int) bool {
				m.trail = append(m.trail, capRecord{s, pos, end})
				if cont(end) {
					return true
				}
				m.trail = m.trail[:len(m.trail)-1]
				return false
			})
		}
		if !ok {
			m.trail = m.trail[:mark]
		}
		return ok
	case stateRepetition:
		if s.inner == nil {
			// An empty group matches once, consuming nothing.
			return cont(pos)
		}
		var rep func(count, pos int) bool
		rep = func(count, pos int) bool {
			// Greedy: try one more iteration first.
			if s.max == 0 || count < int(s.max) {
				if m.run(s.inner, pos, func(end int) bool {
					if end == pos && s.max == 0 {
						// The iteration consumed nothing; repeating it
						// cannot make progress.
						return false
					}
					return rep(count+1, end)
				}) {
					return true
				}
			}
			if count >= int(s.min) {
				return cont(pos)
			}
			return false
		}
		return rep(0, pos)
	}
	return false
}
