package md5

import (
	"bytes"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"md5-bind-renderer/internal/mathutil"
)

// reader is a cursor over a text document. Each token rule skips the
// insignificant whitespace in front of itself, so records may span lines.
type reader struct {
	data []byte
	off  int
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isWordByte(b byte) bool {
	return isDigit(b) || b == '_' || (b|0x20 >= 'a' && b|0x20 <= 'z')
}

func (r *reader) skipSpace() {
	for r.off < len(r.data) && isSpace(r.data[r.off]) {
		r.off++
	}
}

func (r *reader) atEOF() bool {
	r.skipSpace()
	return r.off >= len(r.data)
}

func (r *reader) fail(off int, want string, kind error) error {
	return &SyntaxError{
		Offset: off,
		Line:   1 + bytes.Count(r.data[:off], []byte{'\n'}),
		Want:   want,
		Err:    kind,
	}
}

// peek reports whether the next token starts with s. Nothing is consumed
// apart from leading whitespace.
func (r *reader) peek(s string) bool {
	r.skipSpace()
	return bytes.HasPrefix(r.data[r.off:], []byte(s))
}

// peekWord is peek for a keyword: s must not run on into an identifier.
func (r *reader) peekWord(s string) bool {
	if !r.peek(s) {
		return false
	}
	end := r.off + len(s)
	return end == len(r.data) || !isWordByte(r.data[end])
}

// tag consumes the literal punctuation s.
func (r *reader) tag(s string) error {
	if r.atEOF() {
		return r.fail(r.off, strconv.Quote(s), ErrUnexpectedEOF)
	}
	if !r.peek(s) {
		return r.fail(r.off, strconv.Quote(s), ErrTagMismatch)
	}
	r.off += len(s)
	return nil
}

// keyword consumes the literal word s.
func (r *reader) keyword(s string) error {
	if r.atEOF() {
		return r.fail(r.off, strconv.Quote(s), ErrUnexpectedEOF)
	}
	if !r.peekWord(s) {
		return r.fail(r.off, strconv.Quote(s), ErrTagMismatch)
	}
	r.off += len(s)
	return nil
}

// optional consumes s when it is next and reports whether it did.
func (r *reader) optional(s string) bool {
	if r.peek(s) {
		r.off += len(s)
		return true
	}
	return false
}

// scanTo skips forward past the next occurrence of the keyword s,
// ignoring whatever commentary precedes it.
func (r *reader) scanTo(s string) error {
	start := r.off
	for from := r.off; from < len(r.data); {
		i := bytes.Index(r.data[from:], []byte(s))
		if i < 0 {
			break
		}
		at := from + i
		end := at + len(s)
		before := at == 0 || !isWordByte(r.data[at-1])
		after := end == len(r.data) || !isWordByte(r.data[end])
		if before && after {
			r.off = end
			return nil
		}
		from = at + 1
	}
	return r.fail(start, strconv.Quote(s), ErrUnexpectedEOF)
}

// comment consumes an optional `//` comment through the end of its line.
func (r *reader) comment() {
	if !r.peek("//") {
		return
	}
	nl := bytes.IndexByte(r.data[r.off:], '\n')
	if nl < 0 {
		r.off = len(r.data)
		return
	}
	r.off += nl + 1
}

// quoted reads a "..." string. There are no escapes: the content is every
// byte up to the next quote.
func (r *reader) quoted() (string, error) {
	if r.atEOF() {
		return "", r.fail(r.off, "quoted string", ErrUnexpectedEOF)
	}
	start := r.off
	if r.data[start] != '"' {
		return "", r.fail(start, "quoted string", ErrTagMismatch)
	}
	end := bytes.IndexByte(r.data[start+1:], '"')
	if end < 0 {
		return "", r.fail(start, "closing quote", ErrUnterminatedString)
	}
	r.off = start + 1 + end + 1
	return string(r.data[start+1 : start+1+end]), nil
}

func (r *reader) digits() int {
	start := r.off
	for r.off < len(r.data) && isDigit(r.data[r.off]) {
		r.off++
	}
	return r.off - start
}

// number scans [-]digits[.digits] and returns the lexeme. frac allows the
// fractional part. kind is the error reported for a malformed literal.
func (r *reader) number(want string, frac bool, signed bool, kind error) (string, int, error) {
	if r.atEOF() {
		return "", r.off, r.fail(r.off, want, ErrUnexpectedEOF)
	}
	start := r.off
	if signed && r.data[r.off] == '-' {
		r.off++
		if r.off >= len(r.data) {
			return "", start, r.fail(r.off, want, ErrUnexpectedEOF)
		}
	}
	if r.digits() == 0 {
		r.off = start
		return "", start, r.fail(start, want, kind)
	}
	if frac && r.off < len(r.data) && r.data[r.off] == '.' {
		dot := r.off
		r.off++
		if r.digits() == 0 {
			r.off = dot
		}
	}
	return string(r.data[start:r.off]), start, nil
}

func (r *reader) integer() (int32, error) {
	lex, start, err := r.number("integer", false, true, ErrInvalidInteger)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(lex, 10, 32)
	if err != nil {
		r.off = start
		return 0, r.fail(start, "integer", ErrInvalidInteger)
	}
	return int32(v), nil
}

func (r *reader) uinteger() (uint32, error) {
	lex, start, err := r.number("unsigned integer", false, false, ErrInvalidInteger)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(lex, 10, 32)
	if err != nil {
		r.off = start
		return 0, r.fail(start, "unsigned integer", ErrInvalidInteger)
	}
	return uint32(v), nil
}

func (r *reader) float() (float32, error) {
	lex, start, err := r.number("float", true, true, ErrInvalidFloat)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(lex, 32)
	if err != nil {
		r.off = start
		return 0, r.fail(start, "float", ErrInvalidFloat)
	}
	return float32(v), nil
}

// Both parentheses are optional and matched independently, like the
// exporters that sometimes drop them.
func (r *reader) vec2() (mgl32.Vec2, error) {
	var v mgl32.Vec2
	r.optional("(")
	for i := range v {
		f, err := r.float()
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	r.optional(")")
	return v, nil
}

func (r *reader) vec3() (mgl32.Vec3, error) {
	var v mgl32.Vec3
	r.optional("(")
	for i := range v {
		f, err := r.float()
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	r.optional(")")
	return v, nil
}

// quat reads the stored (x, y, z) and derives w.
func (r *reader) quat() (mgl32.Quat, error) {
	v, err := r.vec3()
	if err != nil {
		return mgl32.Quat{}, err
	}
	return mathutil.UnitQuat(v[0], v[1], v[2]), nil
}
