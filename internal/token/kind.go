package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident is a bare word that is not a literal keyword.
	Ident
	// String is a double-quoted string literal.
	String
	// Number is a numeric literal.
	Number
	// KwTrue represents the 'true' literal.
	KwTrue
	// KwFalse represents the 'false' literal.
	KwFalse
	// KwNull represents the 'null' literal.
	KwNull

	// Colon represents ':'.
	Colon
	// Comma represents ','.
	Comma
	// LBrace represents '{'.
	LBrace
	// RBrace represents '}'.
	RBrace
	// LBracket represents '['.
	LBracket
	// RBracket represents ']'.
	RBracket
)

var kindNames = [...]string{
	Invalid:  "Invalid",
	EOF:      "EOF",
	Ident:    "Ident",
	String:   "String",
	Number:   "Number",
	KwTrue:   "true",
	KwFalse:  "false",
	KwNull:   "null",
	Colon:    "':'",
	Comma:    "','",
	LBrace:   "'{'",
	RBrace:   "'}'",
	LBracket: "'['",
	RBracket: "']'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
