package charset

// utf8Scan tracks whether a byte stream is well-formed UTF-8 and whether it
// contains any multi-byte sequence.
type utf8Scan struct {
	ok        bool
	pending   int
	multiByte int
}

func (s *utf8Scan) feed(b byte) {
	switch {
	case s.pending > 0:
		if b&0xC0 != 0x80 {
			s.ok = false
			return
		}
		s.pending--
	case b&0x80 == 0:
	case b&0xE0 == 0xC0:
		s.pending, s.multiByte = 1, s.multiByte+1
	case b&0xF0 == 0xE0:
		s.pending, s.multiByte = 2, s.multiByte+1
	case b&0xF8 == 0xF0:
		s.pending, s.multiByte = 3, s.multiByte+1
	default:
		s.ok = false
	}
}

// sjisScan tracks whether a byte stream is plausible Shift_JIS and the
// longest runs of half-width katakana and double-byte characters.
type sjisScan struct {
	ok           bool
	pending      int
	katakana     int
	kanaRun      int
	maxKanaRun   int
	doubleRun    int
	maxDoubleRun int
}

func (s *sjisScan) feed(b byte) {
	switch {
	case s.pending > 0:
		if b < 0x40 || b == 0x7F || b > 0xFC {
			s.ok = false
			return
		}
		s.pending--
	case b == 0x80 || b == 0xA0 || b > 0xEF:
		s.ok = false
	case b > 0xA0 && b < 0xE0:
		s.katakana++
		s.doubleRun = 0
		s.kanaRun++
		s.maxKanaRun = max(s.maxKanaRun, s.kanaRun)
	case b > 0x7F:
		s.pending = 1
		s.kanaRun = 0
		s.doubleRun++
		s.maxDoubleRun = max(s.maxDoubleRun, s.doubleRun)
	default:
		s.kanaRun, s.doubleRun = 0, 0
	}
}

// GuessEncoding picks the most plausible encoding name for an unlabelled
// byte segment: "UTF-16", "UTF-8", "Shift_JIS" or "ISO-8859-1". A non-empty
// hint is returned as is.
func GuessEncoding(data []byte, hint string) string {
	if hint != "" {
		return hint
	}
	if len(data) > 2 && (data[0] == 0xFE && data[1] == 0xFF || data[0] == 0xFF && data[1] == 0xFE) {
		return "UTF-16"
	}

	u := utf8Scan{ok: true}
	s := sjisScan{ok: true}
	latin1 := true
	latin1Symbols := 0
	for _, b := range data {
		if !u.ok && !s.ok && !latin1 {
			break
		}
		if u.ok {
			u.feed(b)
		}
		if s.ok {
			s.feed(b)
		}
		if latin1 {
			if b > 0x7F && b < 0xA0 {
				latin1 = false
			} else if b > 0x9F && (b < 0xC0 || b == 0xD7 || b == 0xF7) {
				latin1Symbols++
			}
		}
	}
	u.ok = u.ok && u.pending == 0
	s.ok = s.ok && s.pending == 0

	bom := len(data) > 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF
	switch {
	case u.ok && (bom || u.multiByte > 0):
		return "UTF-8"
	case s.ok && (s.maxKanaRun >= 3 || s.maxDoubleRun >= 3):
		return "Shift_JIS"
	case latin1 && s.ok:
		if s.maxKanaRun == 2 && s.katakana == 2 || latin1Symbols*10 >= len(data) {
			return "Shift_JIS"
		}
		return "ISO-8859-1"
	case latin1:
		return "ISO-8859-1"
	case s.ok:
		return "Shift_JIS"
	}
	return "UTF-8"
}
