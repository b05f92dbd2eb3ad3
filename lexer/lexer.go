// Package lexer implements the lexical analyzer for axe source text.
//
// The lexer breaks source code into a stream of [token.Token] values for
// the parser to consume. It reads the input byte by byte, so it only
// handles ASCII source; tokenization has no other notion of encoding.
package lexer

import (
	"strings"

	"github.com/axe-lang/axe/token"
)

// Common tokens that are reused to reduce allocations.
var (
	tokenPlus      = token.Token{Type: token.Plus, Literal: "+"}
	tokenMinus     = token.Token{Type: token.Minus, Literal: "-"}
	tokenSlash     = token.Token{Type: token.Slash, Literal: "/"}
	tokenAsterisk  = token.Token{Type: token.Asterisk, Literal: "*"}
	tokenLT        = token.Token{Type: token.Lt, Literal: "<"}
	tokenGT        = token.Token{Type: token.Gt, Literal: ">"}
	tokenSemicolon = token.Token{Type: token.Semicolon, Literal: ";"}
	tokenColon     = token.Token{Type: token.Colon, Literal: ":"}
	tokenComma     = token.Token{Type: token.Comma, Literal: ","}
	tokenLParen    = token.Token{Type: token.Lparen, Literal: "("}
	tokenRParen    = token.Token{Type: token.Rparen, Literal: ")"}
	tokenLBrace    = token.Token{Type: token.Lbrace, Literal: "{"}
	tokenRBrace    = token.Token{Type: token.Rbrace, Literal: "}"}
	tokenPipe      = token.Token{Type: token.Pipe, Literal: "|"}
	tokenEOF       = token.Token{Type: token.EOF, Literal: ""}
)

// Lexer tokenizes axe source text one byte at a time.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	// singleCharToken is reused for illegal/single-char tokens to avoid
	// allocating on every call.
	singleCharToken token.Token
}

// New creates a Lexer over input and primes it with the first character.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// NextToken scans and returns the next token in the input.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	switch l.ch {
	case '=':
		switch l.peekChar() {
		case '=':
			l.readChar()
			l.readChar()
			return token.Token{Type: token.Eq, Literal: "=="}
		case '>':
			l.readChar()
			l.readChar()
			return token.Token{Type: token.FatArrow, Literal: "=>"}
		}
		l.readChar()
		return token.Token{Type: token.Assign, Literal: "="}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.NotEq, Literal: "!="}
		}
		l.readChar()
		return token.Token{Type: token.Bang, Literal: "!"}
	case '+':
		l.readChar()
		return tokenPlus
	case '-':
		l.readChar()
		return tokenMinus
	case '/':
		l.readChar()
		return tokenSlash
	case '*':
		l.readChar()
		return tokenAsterisk
	case '<':
		l.readChar()
		return tokenLT
	case '>':
		l.readChar()
		return tokenGT
	case ';':
		l.readChar()
		return tokenSemicolon
	case ':':
		l.readChar()
		return tokenColon
	case ',':
		l.readChar()
		return tokenComma
	case '(':
		l.readChar()
		return tokenLParen
	case ')':
		l.readChar()
		return tokenRParen
	case '{':
		l.readChar()
		return tokenLBrace
	case '}':
		l.readChar()
		return tokenRBrace
	case '|':
		l.readChar()
		return tokenPipe
	case '"':
		// readString returns the unescaped content and a bool indicating
		// whether the string was properly terminated (closed by a
		// matching quote).
		lit, ok := l.readString()
		if !ok {
			l.singleCharToken.Type = token.Illegal
			l.singleCharToken.Literal = "unterminated string"
			return l.singleCharToken
		}
		tok := token.Token{Type: token.String, Literal: lit}
		l.readChar()
		return tok
	case 0:
		return tokenEOF
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			if literal == "_" {
				return token.Token{Type: token.Underscore, Literal: literal}
			}
			return token.Token{Type: token.LookupIdent(literal), Literal: literal}
		}
		if isDigit(l.ch) {
			lit, isFloat := l.readNumber()
			if isFloat {
				return token.Token{Type: token.Float, Literal: lit}
			}
			return token.Token{Type: token.Int, Literal: lit}
		}
		l.singleCharToken.Type = token.Illegal
		l.singleCharToken.Literal = string(l.ch)
		l.readChar()
		return l.singleCharToken
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// readNumber reads an integer or floating-point literal and reports
// whether a decimal point was consumed.
func (l *Lexer) readNumber() (string, bool) {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position], isFloat
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// skipWhitespace skips whitespace and '//' line comments.
func (l *Lexer) skipWhitespace() {
	for {
		if l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
			continue
		}

		if l.ch == '/' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		break
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// readString reads the content between a pair of double quotes, already
// positioned on the opening quote. It returns the unescaped content and
// whether the string was properly terminated by a matching closing quote.
func (l *Lexer) readString() (string, bool) {
	var b strings.Builder

	l.readChar() // move past the opening quote

	for {
		if l.ch == '"' {
			return b.String(), true
		}
		if l.ch == 0 {
			return b.String(), false
		}

		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				return b.String(), false
			}
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte('\\')
				b.WriteByte(l.ch)
			}
		} else {
			b.WriteByte(l.ch)
		}

		l.readChar()
	}
}
