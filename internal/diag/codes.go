package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005
	LexControlCharInString      Code = 1006
	LexCommentNotAllowed        Code = 1007
	LexTokenTooLong             Code = 1008

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedBrace      Code = 2002
	SynUnclosedBracket    Code = 2003
	SynExpectColon        Code = 2004
	SynExpectValue        Code = 2005
	SynExpectPropertyName Code = 2006
	SynMissingComma       Code = 2007
	SynTrailingContent    Code = 2008
	SynNestingTooDeep     Code = 2009
	SynTrailingComma      Code = 2010

	// Форматтер
	FmtInfo               Code = 3000
	FmtVerbatim           Code = 3001
	FmtUnformattedComment Code = 3002
	FmtNotFormatted       Code = 3003
	FmtMalformedIR        Code = 3004
	FmtNotIdempotent      Code = 3005
	FmtRangeInvalid       Code = 3006
	FmtSuppressed         Code = 3007

	// Ввод-вывод
	IOInfo         Code = 4000
	IOReadFailed   Code = 4001
	IOWriteFailed  Code = 4002
	IOCacheFailed  Code = 4003
	IODecodeFailed Code = 4004

	// Конфигурация
	CfgInfo          Code = 5000
	CfgDecodeFailed  Code = 5001
	CfgUnknownKey    Code = 5002
	CfgOutOfRange    Code = 5003
	CfgInvalidValue  Code = 5004
	CfgMissingConfig Code = 5005
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Malformed number literal",
		LexBadEscape:                "Invalid escape sequence",
		LexControlCharInString:      "Control character in string literal",
		LexCommentNotAllowed:        "Comments are not allowed in JSON",
		LexTokenTooLong:             "Token exceeds the maximum length",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedBrace:            "Unclosed '{'",
		SynUnclosedBracket:          "Unclosed '['",
		SynExpectColon:              "Expected ':' after property name",
		SynExpectValue:              "Expected a value",
		SynExpectPropertyName:       "Expected a property name",
		SynMissingComma:             "Missing ',' between elements",
		SynTrailingContent:          "Unexpected content after the root value",
		SynNestingTooDeep:           "Nesting exceeds the configured depth limit",
		SynTrailingComma:            "Trailing comma is not allowed",
		FmtInfo:                     "Formatter information",
		FmtVerbatim:                 "Region kept verbatim",
		FmtUnformattedComment:       "Comment was not emitted by the formatter",
		FmtNotFormatted:             "File is not formatted",
		FmtMalformedIR:              "Formatter produced a malformed document",
		FmtNotIdempotent:            "Formatting is not idempotent",
		FmtRangeInvalid:             "Invalid formatting range",
		FmtSuppressed:               "Formatting suppressed by comment",
		IOInfo:                      "I/O information",
		IOReadFailed:                "Failed to read file",
		IOWriteFailed:               "Failed to write file",
		IOCacheFailed:               "Format cache unavailable",
		IODecodeFailed:              "Failed to decode file contents",
		CfgInfo:                     "Configuration information",
		CfgDecodeFailed:             "Failed to decode configuration",
		CfgUnknownKey:               "Unknown configuration key",
		CfgOutOfRange:               "Configuration value out of range",
		CfgInvalidValue:             "Invalid configuration value",
		CfgMissingConfig:            "Configuration file not found",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("FMT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
