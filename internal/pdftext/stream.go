package pdftext

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
)

// kerningGap is the TJ adjustment, in thousandths of text space, beyond
// which two glyph runs are treated as separate words.
const kerningGap = -200

// maxArrayDepth bounds nested array parsing. Deeper arrays are skipped.
const maxArrayDepth = 32

type tokenKind int

const (
	tokOther tokenKind = iota
	tokString
	tokNumber
	tokOperator
	tokArray
	tokArrayEnd
)

type token struct {
	kind  tokenKind
	text  string
	num   float64
	items []token
}

// ContentStreamText decodes the text-showing operators of a page content
// stream. Text positioning that moves to a new line (Td/TD with a vertical
// offset, T*, ', ", Tm with a new baseline, ET) starts a new output line,
// so the extractor sees one report field per line.
func ContentStreamText(content []byte) string {
	s := &contentScanner{data: content}
	w := &textWriter{}
	var operands []token

	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.text {
		case "ET", "T*":
			w.newline()
		case "Tj":
			w.write(lastString(operands))
		case "'", "\"":
			w.newline()
			w.write(lastString(operands))
		case "TJ":
			w.writeArray(lastArray(operands))
		case "Td", "TD":
			nums := lastNumbers(operands, 2)
			if nums == nil {
				break
			}
			if nums[1] != 0 {
				w.newline()
			} else if nums[0] > 0 {
				w.space()
			}
		case "Tm":
			nums := lastNumbers(operands, 6)
			if nums == nil {
				break
			}
			w.moveTo(nums[5])
		case "ID":
			s.skipInlineImage()
		}
		operands = operands[:0]
	}

	return w.String()
}

func lastString(operands []token) string {
	for i := len(operands) - 1; i >= 0; i-- {
		if operands[i].kind == tokString {
			return operands[i].text
		}
	}
	return ""
}

func lastArray(operands []token) []token {
	for i := len(operands) - 1; i >= 0; i-- {
		if operands[i].kind == tokArray {
			return operands[i].items
		}
	}
	return nil
}

// lastNumbers returns the final n operands when they are all numbers.
func lastNumbers(operands []token, n int) []float64 {
	if len(operands) < n {
		return nil
	}
	out := make([]float64, 0, n)
	for _, t := range operands[len(operands)-n:] {
		if t.kind != tokNumber {
			return nil
		}
		out = append(out, t.num)
	}
	return out
}

// textWriter accumulates decoded text line by line.
type textWriter struct {
	sb       strings.Builder
	lineOpen bool
	hasY     bool
	y        float64
}

func (w *textWriter) write(text string) {
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			w.newline()
		case unicode.IsSpace(r):
			w.space()
		case unicode.IsPrint(r):
			w.sb.WriteRune(r)
			w.lineOpen = true
		}
	}
}

func (w *textWriter) writeArray(items []token) {
	for _, item := range items {
		switch item.kind {
		case tokString:
			w.write(item.text)
		case tokNumber:
			if item.num < kerningGap {
				w.space()
			}
		}
	}
}

func (w *textWriter) space() {
	if w.lineOpen {
		w.sb.WriteByte(' ')
	}
}

func (w *textWriter) newline() {
	if w.lineOpen {
		w.sb.WriteByte('\n')
		w.lineOpen = false
	}
}

// moveTo handles an absolute text matrix: a new baseline is a new line,
// the same baseline a word break.
func (w *textWriter) moveTo(y float64) {
	if w.hasY && y != w.y {
		w.newline()
	} else {
		w.space()
	}
	w.hasY = true
	w.y = y
}

// String returns the text with runs of spaces collapsed and blank lines
// dropped.
func (w *textWriter) String() string {
	var lines []string
	for _, line := range strings.Split(w.sb.String(), "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}

// contentScanner tokenizes a content stream.
type contentScanner struct {
	data  []byte
	pos   int
	depth int
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *contentScanner) skipSpace() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isWhitespace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *contentScanner) next() (token, bool) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return token{}, false
	}

	c := s.data[s.pos]
	switch c {
	case '(':
		return token{kind: tokString, text: s.literalString()}, true
	case '<':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
			s.pos += 2
			return token{kind: tokOther}, true
		}
		return token{kind: tokString, text: s.hexString()}, true
	case '[':
		s.pos++
		if s.depth >= maxArrayDepth {
			s.skipArray()
			return token{kind: tokOther}, true
		}
		s.depth++
		defer func() { s.depth-- }()
		arr := token{kind: tokArray}
		for {
			item, ok := s.next()
			if !ok || item.kind == tokArrayEnd {
				return arr, true
			}
			arr.items = append(arr.items, item)
		}
	case ']':
		s.pos++
		return token{kind: tokArrayEnd}, true
	case '/':
		s.pos++
		s.word()
		return token{kind: tokOther}, true
	case '>', ')', '{', '}':
		s.pos++
		return token{kind: tokOther}, true
	}

	w := s.word()
	if n, err := strconv.ParseFloat(w, 64); err == nil {
		return token{kind: tokNumber, num: n}, true
	}
	return token{kind: tokOperator, text: w}, true
}

// skipArray consumes the rest of an array whose opening bracket has been
// read, including any nested arrays, without recursion.
func (s *contentScanner) skipArray() {
	level := 1
	for {
		s.skipSpace()
		if s.pos >= len(s.data) {
			return
		}
		switch s.data[s.pos] {
		case '[':
			level++
			s.pos++
		case ']':
			level--
			s.pos++
			if level == 0 {
				return
			}
		case '(':
			s.literalString()
		case '<':
			if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
				s.pos += 2
			} else {
				s.hexString()
			}
		case '/', '>', ')', '{', '}':
			s.pos++
		default:
			s.word()
		}
	}
}

func (s *contentScanner) word() string {
	start := s.pos
	for s.pos < len(s.data) && !isWhitespace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literalString reads a balanced (...) string and decodes its escapes.
func (s *contentScanner) literalString() string {
	s.pos++ // opening paren
	var out []byte
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			out = s.appendEscape(out)
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return latin1(out)
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return latin1(out)
}

func (s *contentScanner) appendEscape(out []byte) []byte {
	if s.pos >= len(s.data) {
		return out
	}
	c := s.data[s.pos]
	s.pos++
	switch c {
	case 'n':
		return append(out, '\n')
	case 'r':
		return append(out, '\r')
	case 't':
		return append(out, '\t')
	case 'b', 'f':
		return out
	case '\r':
		if s.pos < len(s.data) && s.data[s.pos] == '\n' {
			s.pos++
		}
		return out
	case '\n':
		return out
	}
	if c < '0' || c > '7' {
		return append(out, c)
	}
	val := int(c - '0')
	for i := 0; i < 2 && s.pos < len(s.data); i++ {
		d := s.data[s.pos]
		if d < '0' || d > '7' {
			break
		}
		val = val*8 + int(d-'0')
		s.pos++
	}
	return append(out, byte(val))
}

// hexString reads a <...> string.
func (s *contentScanner) hexString() string {
	s.pos++ // opening bracket
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if c := s.data[s.pos]; !isWhitespace(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++ // closing bracket
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	decoded, err := hex.DecodeString(string(digits))
	if err != nil {
		return ""
	}
	return latin1(decoded)
}

// skipInlineImage skips binary inline image data up to the EI operator.
func (s *contentScanner) skipInlineImage() {
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' &&
			s.pos > 0 && isWhitespace(s.data[s.pos-1]) &&
			(s.pos+2 == len(s.data) || isWhitespace(s.data[s.pos+2])) {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}

// latin1 maps each byte to the code point of the same value, which covers
// the ASCII range report text uses under both PDFDoc and WinAnsi encodings.
func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
